package commands

import (
	"context"
	"flag"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/service"
	"todoctl/internal/tasksync"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd marks a task done. It is an edit that only replaces the status.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return nil }
func (c *DoneCmd) Synopsis() string   { return "Mark a task done" }
func (c *DoneCmd) Usage() string      { return "todoctl done <id>" }
func (c *DoneCmd) NeedsBackend() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportTaskIDError(errOut, err)
	}

	done := service.StatusDone
	ctrl := newController(cfg, svc, reloadView(cfg, out), errOut)
	return controllerExit(ctrl.EditTask(ctx, id, tasksync.Overrides{Status: &done}))
}
