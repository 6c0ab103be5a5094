// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All task API calls go through this interface; commands and the
// controller never build HTTP requests themselves.
type Service interface {
	// ListTasks returns the full collection in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, id int64) (Task, error)

	// CreateTask creates a task. The server assigns ID and CreatedAt.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask overwrites title, description and status of a task.
	UpdateTask(ctx context.Context, id int64, in TaskInput) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int64) error
}

// Accounts defines the account operations of the task server.
// Only the auth commands need it.
type Accounts interface {
	Register(ctx context.Context, username, email, password string) (User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context) (User, error)
}

// Backend is everything a CLI command may call on the task server.
type Backend interface {
	Service
	Accounts
}
