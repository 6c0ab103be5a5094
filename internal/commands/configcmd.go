package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective configuration, or writes a default
// config.yaml with `config init`.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Show or initialize configuration" }
func (c *ConfigCmd) Usage() string      { return "todoctl config [init]" }
func (c *ConfigCmd) NeedsBackend() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	switch {
	case len(args) == 0:
		c.print(cfg, out)
		return exitcode.Success
	case len(args) == 1 && args[0] == "init":
		return c.init(cfg, out, errOut)
	default:
		return usageError(errOut, "unknown config subcommand: "+args[0])
	}
}

func (c *ConfigCmd) print(cfg *config.Config, out io.Writer) {
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "-"
	}
	token := "absent"
	if cfg.HasToken() {
		token = "present"
	}
	fmt.Fprintf(out, "dir       %s\n", cfg.Dir)
	fmt.Fprintf(out, "base_url  %s\n", cfg.BaseURL)
	fmt.Fprintf(out, "timeout   %s\n", cfg.Timeout)
	fmt.Fprintf(out, "log_file  %s\n", logFile)
	fmt.Fprintf(out, "token     %s\n", token)
}

func (c *ConfigCmd) init(cfg *config.Config, out, errOut io.Writer) int {
	if err := cfg.WriteDefault(); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintf(errOut, "error: %s already exists\n", cfg.ConfigPath())
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: failed to write config: %v\n", err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", cfg.ConfigPath())
	}
	return exitcode.Success
}
