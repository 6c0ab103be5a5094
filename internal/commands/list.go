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
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todoctl` (no args) and `todoctl list`.
type ListCmd struct {
	json bool
}

// SetJSON selects JSON output (for testing).
func (c *ListCmd) SetJSON(v bool) {
	c.json = v
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todoctl list [--json]" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.json, "json", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: "+args[0])
	}

	// The list is the output, so quiet does not apply.
	view := output.NewTerminalView(out)
	if c.json {
		view = output.NewJSONView(out)
	}
	if code := controllerExit(newController(cfg, svc, view, errOut).LoadTasks(ctx)); code != exitcode.Success {
		return code
	}
	if err := view.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
