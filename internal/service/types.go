// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"fmt"
	"strings"
	"time"
)

// Status is the progress label of a task. The wire value is the label itself.
type Status string

const (
	StatusTodo      Status = "To do"
	StatusDoing     Status = "Doing"
	StatusDone      Status = "Done"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Class returns the presentational class of the status:
// lowercased, spaces replaced with hyphens ("To do" -> "to-do").
func (s Status) Class() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

func (s Status) String() string { return string(s) }

// ParseStatus resolves user input to a Status.
// Matching is case-insensitive and trimmed; the class form ("to-do") is accepted too.
func ParseStatus(input string) (Status, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	for _, known := range Statuses {
		if in == strings.ToLower(string(known)) || in == known.Class() {
			return known, nil
		}
	}
	return "", fmt.Errorf("invalid status: %s", strings.TrimSpace(input))
}

// Task represents a single task as returned by the server.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskInput is the body of create and update requests.
// Updates always carry all three fields.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// Input returns the mutable fields of t.
func (t Task) Input() TaskInput {
	return TaskInput{Title: t.Title, Description: t.Description, Status: t.Status}
}

// User is an account on the task server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}
