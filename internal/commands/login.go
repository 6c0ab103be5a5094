package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd exchanges a username and password for an access token and
// stores it in token.json. The password is read from standard input.
type LoginCmd struct{}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Log in to the task server" }
func (c *LoginCmd) Usage() string      { return "todoctl login [common flags] <username>" }
func (c *LoginCmd) NeedsBackend() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "username required")
	}
	username := args[0]

	password, err := readSecret(cfg, errOut, "password: ")
	if err != nil {
		return usageError(errOut, err.Error())
	}

	accessToken, err := svc.Login(ctx, username, password)
	if err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusUnauthorized) {
			msg := apiErr.Message
			if msg == "" {
				msg = "login rejected"
			}
			fmt.Fprintf(errOut, "error: auth error: %s\n", msg)
			return exitcode.AuthError
		}
		return reportError(errOut, err)
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}

	token := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	if err := cfg.SaveToken(token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	cfg.Logger().Info("token stored")

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
