package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/service"
	"todoctl/internal/tasksync"
)

// newController wires a controller to the terminal. Alerts go to errOut.
func newController(cfg *config.Config, svc service.Service, view tasksync.View, errOut io.Writer) *tasksync.Controller {
	return tasksync.New(svc, view, output.NewTerminalAlerter(errOut), tasksync.WithLogger(cfg.Logger()))
}

// reloadView is where mutating commands show the reloaded list.
// Quiet mode discards it.
func reloadView(cfg *config.Config, out io.Writer) tasksync.View {
	if cfg.Quiet {
		return output.NewTerminalView(io.Discard)
	}
	return output.NewTerminalView(out)
}

// usageError prints msg and returns the user error code.
func usageError(errOut io.Writer, msg string) int {
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return exitcode.UserError
}

// controllerExit maps a controller error to an exit code.
// The controller has already shown the failure, so nothing is printed.
func controllerExit(err error) int {
	switch {
	case err == nil, errors.Is(err, tasksync.ErrDeclined):
		return exitcode.Success
	case errors.Is(err, tasksync.ErrCancelled), errors.Is(err, tasksync.ErrInvalidEdit):
		return exitcode.UserError
	case service.IsNotFound(err):
		return exitcode.UserError
	case service.IsUnauthorized(err):
		return exitcode.AuthError
	default:
		return exitcode.BackendError
	}
}

// reportError prints a failed direct service call and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case service.IsUnauthorized(err):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case service.IsTransport(err):
		fmt.Fprintf(errOut, "error: connection error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// reportTaskIDError prints a task ID parse failure.
func reportTaskIDError(errOut io.Writer, err error) int {
	if errors.Is(err, ErrTaskIDRequired) {
		fmt.Fprintln(errOut, "error: task id required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

// input returns where prompts read from. A missing reader behaves as
// closed input, which cancels prompts and declines confirmations.
func input(cfg *config.Config) io.Reader {
	if cfg.In == nil {
		return strings.NewReader("")
	}
	return cfg.In
}

// readSecret prints prompt to errOut and reads one line from the config input.
func readSecret(cfg *config.Config, errOut io.Writer, prompt string) (string, error) {
	fmt.Fprint(errOut, prompt)
	line, err := bufio.NewReader(input(cfg)).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(errOut)
		return "", errors.New("no password given")
	}
	if line == "" {
		return "", errors.New("no password given")
	}
	return line, nil
}

// optionalString is a string flag that remembers whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

// ptr returns the value when set, else nil.
func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
