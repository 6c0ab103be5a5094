// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todoctl/internal/backend/restapi"
	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

// ServiceFactory creates a backend from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Backend, error)

// RESTFactory talks to the task API at cfg.BaseURL.
func RESTFactory(ctx context.Context, cfg *config.Config) (service.Backend, error) {
	return restapi.New(ctx, cfg)
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
// A nil factory means RESTFactory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	if factory == nil {
		factory = RESTFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// SetInput sets where prompts and passwords are read from.
func (d *Dispatcher) SetInput(in io.Reader) {
	d.in = in
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	// Flags require a command
	if strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
		return exitcode.UserError
	}

	return d.dispatch(ctx, args[0], args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	baseURL   string
	quiet     bool
	debug     bool
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	fs.StringVar(&common.configDir, "config", "", "")
	fs.StringVar(&common.baseURL, "url", "", "")
	fs.BoolVar(&common.quiet, "quiet", false, "")
	fs.BoolVar(&common.debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading "-" that survived parsing was meant as a flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}
	if common.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(common.baseURL, "/")
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	cfg.In = d.in

	log, err := config.NewLogger(cfg.Debug, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}
	defer func() { _ = log.Sync() }()
	cfg.Log = log.With(zap.String("command", cmd.Name()))

	var svc service.Backend
	if cmd.NeedsBackend() {
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			if errors.Is(err, restapi.ErrInvalidToken) {
				fmt.Fprintf(errOut, "error: auth error: %s (run: %s login)\n", err, config.AppName)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	cfg.Log.Debug("dispatch",
		zap.Strings("args", positionalArgs),
		zap.String("base_url", cfg.BaseURL),
	)
	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument: "):
		return msg
	case strings.HasPrefix(msg, "flag provided but not defined: "):
		return "unknown flag: " + strings.TrimPrefix(msg, "flag provided but not defined: ")
	default:
		return msg
	}
}
