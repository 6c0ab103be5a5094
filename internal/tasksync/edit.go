package tasksync

import (
	"context"
	"fmt"

	"todoctl/internal/service"
)

// EditRequest is the complete replacement of a task's editable fields.
type EditRequest struct {
	Title       string
	Description string
	Status      service.Status
}

// RequestFrom returns an edit request carrying the task's current values.
func RequestFrom(task service.Task) EditRequest {
	return EditRequest{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
	}
}

// Validate checks the request before it is sent. Only the status is
// constrained; title and description pass through as given.
func (r EditRequest) Validate() error {
	if !r.Status.Valid() {
		return fmt.Errorf("%w: invalid status: %q", ErrInvalidEdit, string(r.Status))
	}
	return nil
}

// Input converts the request to the update body.
func (r EditRequest) Input() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

// Overrides is a Collector that replaces only the fields it carries.
// A nil field keeps the current value.
type Overrides struct {
	Title       *string
	Description *string
	Status      *service.Status
}

// Empty reports whether no field is overridden.
func (o Overrides) Empty() bool {
	return o.Title == nil && o.Description == nil && o.Status == nil
}

// Collect implements Collector.
func (o Overrides) Collect(_ context.Context, current service.Task) (EditRequest, error) {
	req := RequestFrom(current)
	if o.Title != nil {
		req.Title = *o.Title
	}
	if o.Description != nil {
		req.Description = *o.Description
	}
	if o.Status != nil {
		req.Status = *o.Status
	}
	return req, nil
}

// Draft is an in-memory create form.
type Draft struct {
	Title       string
	Description string
	Status      service.Status
}

// Input implements Form.
func (d *Draft) Input() service.TaskInput {
	return service.TaskInput{
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
	}
}

// Reset implements Form.
func (d *Draft) Reset() {
	*d = Draft{}
}
