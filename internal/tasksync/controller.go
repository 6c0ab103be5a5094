// Package tasksync keeps a rendered task list in step with the task server.
//
// The controller owns no task state. Every successful mutation is followed by
// a full reload, and every reload replaces the view wholesale.
package tasksync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"todoctl/internal/service"
)

var (
	// ErrCancelled is returned when edit collection was cancelled. Nothing was sent.
	ErrCancelled = errors.New("edit cancelled")

	// ErrDeclined is returned when a delete was not confirmed. Nothing was sent.
	ErrDeclined = errors.New("delete not confirmed")

	// ErrInvalidEdit is returned when an edit request fails validation. Nothing was sent.
	ErrInvalidEdit = errors.New("invalid edit request")
)

// User-visible alert texts.
const (
	msgCreateFailed = "failed to create task"
	msgUpdateFailed = "failed to update task"
	msgDeleteFailed = "failed to delete task"
	msgFetchFailed  = "failed to fetch task"
	msgConnection   = "connection error"
)

// View is the render target. Both methods replace whatever was shown before.
type View interface {
	Render(tasks []service.Task)
	RenderError()
}

// Alerter shows a user-visible message for a failed mutation.
type Alerter interface {
	Alert(msg string)
}

// Form supplies the input of a create and is reset after a successful one.
type Form interface {
	Input() service.TaskInput
	Reset()
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Collector produces the replacement values of an edit from the current task.
// Returning ErrCancelled aborts the edit without sending anything.
type Collector interface {
	Collect(ctx context.Context, current service.Task) (EditRequest, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// CollectFunc adapts a function to Collector.
type CollectFunc func(ctx context.Context, current service.Task) (EditRequest, error)

func (f CollectFunc) Collect(ctx context.Context, current service.Task) (EditRequest, error) {
	return f(ctx, current)
}

// Controller translates user intents into task API requests and keeps the
// view synchronized with server state. It is safe for concurrent use.
type Controller struct {
	svc    service.Service
	view   View
	alerts Alerter
	log    *zap.Logger

	// issued numbers every load; rendered is the newest load shown.
	issued   atomic.Uint64
	mu       sync.Mutex
	rendered uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a controller.
func New(svc service.Service, view View, alerts Alerter, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		view:   view,
		alerts: alerts,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadTasks fetches the collection and replaces the view with it.
// On failure the view shows the error placeholder; there is no retry.
// A response that resolves after a newer load has been rendered is dropped.
func (c *Controller) LoadTasks(ctx context.Context) error {
	seq := c.issued.Add(1)
	tasks, err := c.svc.ListTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.rendered {
		c.log.Debug("discarding stale task list",
			zap.Uint64("seq", seq),
			zap.Uint64("rendered", c.rendered),
		)
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		return nil
	}
	c.rendered = seq

	if err != nil {
		c.log.Error("load tasks failed", zap.Uint64("seq", seq), zap.Error(err))
		c.view.RenderError()
		return fmt.Errorf("load tasks: %w", err)
	}

	c.view.Render(tasks)
	c.log.Debug("rendered tasks", zap.Uint64("seq", seq), zap.Int("count", len(tasks)))
	return nil
}

// CreateTask submits the form. The form is reset and the list reloaded only on success.
func (c *Controller) CreateTask(ctx context.Context, form Form) error {
	in := form.Input()
	task, err := c.svc.CreateTask(ctx, in)
	if err != nil {
		c.log.Error("create task failed", zap.String("title", in.Title), zap.Error(err))
		c.alerts.Alert(alertMessage(err, msgCreateFailed))
		return fmt.Errorf("create task: %w", err)
	}
	c.log.Info("task created", zap.Int64("id", task.ID))

	form.Reset()
	return c.LoadTasks(ctx)
}

// DeleteTask deletes a task after confirmation, then reloads the list.
func (c *Controller) DeleteTask(ctx context.Context, id int64, confirm Confirmer) error {
	if !confirm.Confirm(fmt.Sprintf("delete task %d?", id)) {
		c.log.Debug("delete declined", zap.Int64("id", id))
		return ErrDeclined
	}

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.log.Error("delete task failed", zap.Int64("id", id), zap.Error(err))
		c.alerts.Alert(alertMessage(err, msgDeleteFailed))
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	c.log.Info("task deleted", zap.Int64("id", id))

	return c.LoadTasks(ctx)
}

// EditTask fetches the current task, collects a complete replacement,
// validates it and sends it as one update before reloading the list.
func (c *Controller) EditTask(ctx context.Context, id int64, collector Collector) error {
	current, err := c.svc.GetTask(ctx, id)
	if err != nil {
		c.log.Error("fetch task failed", zap.Int64("id", id), zap.Error(err))
		c.alerts.Alert(alertMessage(err, msgFetchFailed))
		return fmt.Errorf("fetch task %d: %w", id, err)
	}

	req, err := collector.Collect(ctx, current)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			c.log.Debug("edit cancelled", zap.Int64("id", id))
			return ErrCancelled
		}
		c.log.Error("collect edit failed", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("collect edit: %w", err)
	}

	if err := req.Validate(); err != nil {
		c.alerts.Alert(err.Error())
		return err
	}

	if _, err := c.svc.UpdateTask(ctx, id, req.Input()); err != nil {
		c.log.Error("update task failed", zap.Int64("id", id), zap.Error(err))
		c.alerts.Alert(alertMessage(err, msgUpdateFailed))
		return fmt.Errorf("update task %d: %w", id, err)
	}
	c.log.Info("task updated", zap.Int64("id", id))

	return c.LoadTasks(ctx)
}

// alertMessage picks the user-facing text: transport failures all read the
// same, application failures name the operation.
func alertMessage(err error, msg string) string {
	if service.IsTransport(err) {
		return msgConnection
	}
	return msg
}
