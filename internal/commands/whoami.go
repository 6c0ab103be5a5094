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
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the account the stored token belongs to.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return []string{"me"} }
func (c *WhoamiCmd) Synopsis() string   { return "Show the logged-in account" }
func (c *WhoamiCmd) Usage() string      { return "todoctl whoami" }
func (c *WhoamiCmd) NeedsBackend() bool { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	if !cfg.HasToken() {
		fmt.Fprintln(errOut, "error: not logged in (run: todoctl login)")
		return exitcode.AuthError
	}

	user, err := svc.Me(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	fmt.Fprintf(out, "%s <%s>\n", user.Username, user.Email)
	return exitcode.Success
}
