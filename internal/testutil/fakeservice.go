// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"todoctl/internal/service"
)

// FakeService is an in-memory implementation of service.Service and
// service.Accounts for testing. Every call is recorded as "METHOD /path",
// including calls that fail through error injection.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int64
	calls  []string

	// Now supplies creation and update timestamps.
	Now func() time.Time

	// Error injection for testing
	ListTasksErr  error
	GetTaskErr    error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	RegisterErr   error
	LoginErr      error
	MeErr         error

	// OnList, if set, runs inside ListTasks after the call is recorded and
	// before the snapshot is taken. n is the 1-based ListTasks call count.
	OnList func(n int)

	// Accounts
	Users    map[string]string // username -> password
	Token    string
	LoggedIn service.User
}

var (
	_ service.Service  = (*FakeService)(nil)
	_ service.Accounts = (*FakeService)(nil)
)

// NewFakeService creates an empty FakeService with a fixed clock.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		Now: func() time.Time {
			return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
		},
		Users: make(map[string]string),
		Token: "fake-token",
	}
}

// AddTask seeds a task and returns it.
func (f *FakeService) AddTask(title, description string, status service.Status) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(service.TaskInput{Title: title, Description: description, Status: status})
}

func (f *FakeService) insert(in service.TaskInput) service.Task {
	now := f.Now()
	task := service.Task{
		ID:          f.nextID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = service.StatusTodo
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns the recorded calls in order.
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, len(f.calls))
	copy(result, f.calls)
	return result
}

// CountCalls counts recorded calls starting with prefix (e.g. "PUT ").
func (f *FakeService) CountCalls(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *FakeService) record(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method+" "+path)
}

func notFound(op string) error {
	return &service.APIError{Op: op, StatusCode: http.StatusNotFound, Message: "Task not found"}
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record(http.MethodGet, "/tasks/")
	if f.OnList != nil {
		f.OnList(f.CountCalls("GET /tasks/"))
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int64) (service.Task, error) {
	path := fmt.Sprintf("/tasks/%d", id)
	f.record(http.MethodGet, path)
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, notFound("GET " + path)
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.record(http.MethodPost, "/tasks/")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(in), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	path := fmt.Sprintf("/tasks/%d", id)
	f.record(http.MethodPut, path)
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Title = in.Title
			f.tasks[i].Description = in.Description
			f.tasks[i].Status = in.Status
			f.tasks[i].UpdatedAt = f.Now()
			return f.tasks[i], nil
		}
	}
	return service.Task{}, notFound("PUT " + path)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/tasks/%d", id)
	f.record(http.MethodDelete, path)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound("DELETE " + path)
}

// Register implements service.Accounts.
func (f *FakeService) Register(ctx context.Context, username, email, password string) (service.User, error) {
	f.record(http.MethodPost, "/auth/register")
	if f.RegisterErr != nil {
		return service.User{}, f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.Users[username]; exists {
		return service.User{}, &service.APIError{Op: "POST /auth/register", StatusCode: http.StatusBadRequest, Message: "Username already exists"}
	}
	f.Users[username] = password
	return service.User{ID: int64(len(f.Users)), Username: username, Email: email, IsActive: true}, nil
}

// Login implements service.Accounts.
func (f *FakeService) Login(ctx context.Context, username, password string) (string, error) {
	f.record(http.MethodPost, "/auth/login")
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.Users[username]
	if !ok {
		return "", &service.APIError{Op: "POST /auth/login", StatusCode: http.StatusNotFound, Message: "Username not found"}
	}
	if stored != password {
		return "", &service.APIError{Op: "POST /auth/login", StatusCode: http.StatusUnauthorized, Message: "Incorrect password"}
	}
	return f.Token, nil
}

// Me implements service.Accounts.
func (f *FakeService) Me(ctx context.Context) (service.User, error) {
	f.record(http.MethodGet, "/auth/me")
	if f.MeErr != nil {
		return service.User{}, f.MeErr
	}
	return f.LoggedIn, nil
}
