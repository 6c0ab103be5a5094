package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd creates an account on the task server.
// The password is read from standard input.
type RegisterCmd struct{}

func (c *RegisterCmd) Name() string       { return "register" }
func (c *RegisterCmd) Aliases() []string  { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string   { return "Create an account" }
func (c *RegisterCmd) Usage() string      { return "todoctl register <username> <email>" }
func (c *RegisterCmd) NeedsBackend() bool { return true }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		return usageError(errOut, "usage: "+c.Usage())
	}
	username, email := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
	if username == "" || !strings.Contains(email, "@") {
		return usageError(errOut, "username and a valid email required")
	}

	password, err := readSecret(cfg, errOut, "password: ")
	if err != nil {
		return usageError(errOut, err.Error())
	}

	user, err := svc.Register(ctx, username, email, password)
	if err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			return usageError(errOut, apiErr.Message)
		}
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered %s (id %d)\n", user.Username, user.ID)
	}
	return exitcode.Success
}
