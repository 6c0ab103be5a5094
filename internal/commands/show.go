package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints a single task.
type ShowCmd struct {
	json bool
}

// SetJSON selects JSON output (for testing).
func (c *ShowCmd) SetJSON(v bool) {
	c.json = v
}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"get"} }
func (c *ShowCmd) Synopsis() string   { return "Show one task" }
func (c *ShowCmd) Usage() string      { return "todoctl show [--json] <id>" }
func (c *ShowCmd) NeedsBackend() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.json, "json", false, "")
}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportTaskIDError(errOut, err)
	}

	task, err := svc.GetTask(ctx, id)
	if err != nil {
		if service.IsNotFound(err) {
			fmt.Fprintf(errOut, "error: task not found: %d\n", id)
			return exitcode.UserError
		}
		return reportError(errOut, err)
	}

	if c.json {
		if err := output.RenderJSONTask(out, task); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}
	output.FormatTask(out, task)
	return exitcode.Success
}
