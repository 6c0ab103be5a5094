package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todoctl help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todoctl                                            List all tasks
  todoctl list [common flags] [--json]               List all tasks
  todoctl show [common flags] [--json] <id>
  todoctl add [common flags] [-d <description>] [-s <status>] <title...>
  todoctl create [common flags] [-d <description>] [-s <status>] <title...>
  todoctl edit [common flags] [-t <title>] [-d <description>] [-s <status>] [-i] <id>
  todoctl done [common flags] <id>
  todoctl rm [common flags] [--yes] <id>
  todoctl statuses
  todoctl register [common flags] <username> <email>
  todoctl login [common flags] <username>
  todoctl logout [common flags]
  todoctl whoami [common flags]
  todoctl config [common flags] [init]
  todoctl help
  todoctl version

Without field flags, edit prompts for each field; an empty answer keeps the
current value and end of input cancels. rm asks for confirmation unless --yes.
Passwords are read from standard input.

Common flags:
  --config <dir>   Override config directory
  --url <url>      Override the task API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
