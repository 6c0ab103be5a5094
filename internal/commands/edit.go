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
	"todoctl/internal/tasksync"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Field flags replace single values; without them every field is prompted for.
type EditCmd struct {
	title       optionalString
	description optionalString
	status      optionalString
	interactive bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "todoctl edit [-t <title>] [-d <description>] [-s <status>] [-i] <id>"
}
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description, c.status = optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.status, "s", "")
	fs.BoolVar(&c.interactive, "interactive", false, "")
	fs.BoolVar(&c.interactive, "i", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportTaskIDError(errOut, err)
	}

	overrides := tasksync.Overrides{
		Title:       c.title.ptr(),
		Description: c.description.ptr(),
	}
	if c.status.set {
		status, err := service.ParseStatus(c.status.value)
		if err != nil {
			return usageError(errOut, err.Error())
		}
		overrides.Status = &status
	}

	if c.interactive && !overrides.Empty() {
		return usageError(errOut, "cannot combine -i with field flags")
	}

	var collector tasksync.Collector = overrides
	if overrides.Empty() {
		collector = tasksync.NewPrompter(input(cfg), errOut)
	}

	ctrl := newController(cfg, svc, reloadView(cfg, out), errOut)
	err = ctrl.EditTask(ctx, id, collector)
	if errors.Is(err, tasksync.ErrCancelled) {
		fmt.Fprintln(errOut, "error: edit cancelled")
		return exitcode.UserError
	}
	return controllerExit(err)
}
