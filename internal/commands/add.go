package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"todoctl/internal/config"
	"todoctl/internal/service"
	"todoctl/internal/tasksync"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	status      string
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todoctl add [-d <description>] [-s <status>] <title...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.status, "status", string(service.StatusTodo), "")
	fs.StringVar(&c.status, "s", string(service.StatusTodo), "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return usageError(errOut, "title required")
	}

	status := service.StatusTodo
	if c.status != "" {
		parsed, err := service.ParseStatus(c.status)
		if err != nil {
			return usageError(errOut, err.Error())
		}
		status = parsed
	}

	form := &tasksync.Draft{
		Title:       title,
		Description: c.description,
		Status:      status,
	}
	ctrl := newController(cfg, svc, reloadView(cfg, out), errOut)
	return controllerExit(ctrl.CreateTask(ctx, form))
}
