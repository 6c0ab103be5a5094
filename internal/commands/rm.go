package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/service"
	"todoctl/internal/tasksync"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

// SetYes skips the confirmation (for testing).
func (c *RmCmd) SetYes(v bool) {
	c.yes = v
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "todoctl rm [--yes] <id>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportTaskIDError(errOut, err)
	}

	var confirm tasksync.Confirmer = tasksync.NewPrompter(input(cfg), errOut)
	if c.yes {
		confirm = tasksync.ConfirmFunc(func(string) bool { return true })
	}

	ctrl := newController(cfg, svc, reloadView(cfg, out), errOut)
	err = ctrl.DeleteTask(ctx, id, confirm)
	if errors.Is(err, tasksync.ErrDeclined) && !cfg.Quiet {
		fmt.Fprintln(out, "cancelled")
	}
	return controllerExit(err)
}
