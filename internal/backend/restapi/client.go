// Package restapi implements service.Service against the task REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todoctl/internal/config"
	"todoctl/internal/service"
)

const (
	// collectionPath is the tasks collection endpoint. The trailing slash is significant.
	collectionPath = "/tasks/"

	// DefaultTimeout is used when no timeout is configured.
	DefaultTimeout = 10 * time.Second
)

// ErrInvalidToken is returned by New when token.json exists but cannot be used.
var ErrInvalidToken = errors.New("auth token")

// Client implements service.Service and service.Accounts over HTTP/JSON.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
}

var (
	_ service.Service  = (*Client)(nil)
	_ service.Accounts = (*Client)(nil)
)

// New creates a client from config.
// When token.json exists, every request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	httpClient := &http.Client{}
	if cfg.HasToken() {
		token, err := cfg.LoadToken()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		timeout: timeout,
		log:     cfg.Logger(),
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
}

// ListTasks returns the full collection in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, collectionPath, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id int64) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// CreateTask creates a task and returns it as stored by the server.
// A 2xx reply without a task body yields a zero Task and no error.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.mutate(ctx, http.MethodPost, collectionPath, in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask overwrites title, description and status of a task.
// As with CreateTask, any 2xx reply counts as success.
func (c *Client) UpdateTask(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.mutate(ctx, http.MethodPut, taskPath(id), in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a task. The response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, email, password string) (service.User, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	var user service.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	var tok tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", errors.New("login: empty access token")
	}
	return tok.AccessToken, nil
}

// Me returns the account the stored token belongs to.
func (c *Client) Me(ctx context.Context) (service.User, error) {
	var user service.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d", id)
}

// do sends one request and requires a JSON body in out on success.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, true)
}

// mutate sends a task mutation. The status alone decides success: an empty
// or unreadable 2xx body is not an error.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, false)
}

// send sends one request. Any transport failure becomes a *service.TransportError,
// any non-2xx status a *service.APIError. There is no retry.
func (c *Client) send(ctx context.Context, method, path string, body, out any, strict bool) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return &service.TransportError{Op: op, Err: err}
	}
	defer googleapi.CloseBody(resp)

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(op, resp.StatusCode, err)
	}

	if out == nil {
		return nil
	}
	if !strict {
		if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
			return nil
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil || json.Unmarshal(data, out) != nil {
			c.log.Debug("ignoring unreadable response body",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
			)
		}
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// wrapError converts a googleapi error into a service.APIError.
// The message is best effort: the "error" envelope googleapi understands,
// else a string "detail" field, else nothing.
func wrapError(op string, status int, err error) error {
	apiErr := &service.APIError{Op: op, StatusCode: status}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		apiErr.StatusCode = gerr.Code
		apiErr.Message = gerr.Message
		if apiErr.Message == "" {
			apiErr.Message = detailMessage(gerr.Body)
		}
	}
	return apiErr
}

func detailMessage(body string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
