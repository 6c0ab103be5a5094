package commands

import (
	"context"
	"flag"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/service"
)

func init() {
	Register(&StatusesCmd{})
}

// StatusesCmd lists the accepted statuses.
type StatusesCmd struct{}

func (c *StatusesCmd) Name() string       { return "statuses" }
func (c *StatusesCmd) Aliases() []string  { return nil }
func (c *StatusesCmd) Synopsis() string   { return "List task statuses" }
func (c *StatusesCmd) Usage() string      { return "todoctl statuses" }
func (c *StatusesCmd) NeedsBackend() bool { return false }

func (c *StatusesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	output.FormatStatuses(out)
	return exitcode.Success
}
