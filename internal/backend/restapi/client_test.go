package restapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/backend/restapi"
	"todoctl/internal/config"
	"todoctl/internal/service"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
	Type   string
}

// newServer starts a test server that records requests and answers with handler.
func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(body),
			Auth:   r.Header.Get("Authorization"),
			Type:   r.Header.Get("Content-Type"),
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ListTasks(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":2,"title":"Write docs","description":"api","status":"Doing","created_at":"2026-10-01T08:00:00Z","updated_at":"2026-10-02T08:00:00Z"},
			{"id":1,"title":"Ship","description":"","status":"To do","created_at":"2026-09-30T08:00:00Z","updated_at":"2026-09-30T08:00:00Z"}]`)
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, int64(2), tasks[0].ID)
	assert.Equal(t, "Write docs", tasks[0].Title)
	assert.Equal(t, service.StatusDoing, tasks[0].Status)
	assert.Equal(t, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC), tasks[0].CreatedAt)
	assert.Equal(t, int64(1), tasks[1].ID)

	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodGet, (*reqs)[0].Method)
	assert.Equal(t, "/tasks/", (*reqs)[0].Path)
}

func TestClient_ListTasks_EmptyIsNotNil(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestClient_CreateTask_SendsJSONBody(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 7, "title": "Buy milk", "description": "2L", "status": "To do",
			"created_at": "2026-10-17T10:00:00Z", "updated_at": "2026-10-17T10:00:00Z",
		})
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	task, err := client.CreateTask(context.Background(), service.TaskInput{
		Title: "Buy milk", Description: "2L", Status: service.StatusTodo,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), task.ID)

	require.Len(t, *reqs, 1)
	req := (*reqs)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/tasks/", req.Path)
	assert.Equal(t, "application/json", req.Type)
	assert.JSONEq(t, `{"title":"Buy milk","description":"2L","status":"To do"}`, req.Body)
}

func TestClient_UpdateTask_SendsAllFields(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "title": "t", "description": "", "status": "Done"})
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	_, err := client.UpdateTask(context.Background(), 3, service.TaskInput{Title: "t", Status: service.StatusDone})
	require.NoError(t, err)

	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
	assert.Equal(t, "/tasks/3", (*reqs)[0].Path)
	assert.JSONEq(t, `{"title":"t","description":"","status":"Done"}`, (*reqs)[0].Body)
}

func TestClient_DeleteTask(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"detail": "Task deleted successfully"})
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	require.NoError(t, client.DeleteTask(context.Background(), 12))
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodDelete, (*reqs)[0].Method)
	assert.Equal(t, "/tasks/12", (*reqs)[0].Path)
}

func TestClient_NotFoundIsAPIError(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Task not found"})
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	_, err := client.GetTask(context.Background(), 99)
	require.Error(t, err)

	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Task not found", apiErr.Message)
	assert.Equal(t, "GET /tasks/99", apiErr.Op)
	assert.True(t, service.IsNotFound(err))
	assert.False(t, service.IsTransport(err))
}

func TestClient_ErrorWithoutPayload(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream down")
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	err := client.DeleteTask(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, service.StatusCode(err))
}

func TestClient_ValidationDetailListIsIgnored(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":[{"loc":["body","status"],"msg":"invalid"}]}`)
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	_, err := client.CreateTask(context.Background(), service.TaskInput{Title: "x"})
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := restapi.NewWithHTTPClient(url, http.DefaultClient)
	_, err := client.ListTasks(context.Background())
	require.Error(t, err)
	assert.True(t, service.IsTransport(err))
	assert.Equal(t, 0, service.StatusCode(err))
}

func TestClient_CancelledContextIsTransportError(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListTasks(ctx)
	require.Error(t, err)
	assert.True(t, service.IsTransport(err))
}

func TestClient_DecodeError(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>not json</html>`)
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	_, err := client.ListTasks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_CreateTask_CreatedWithoutBody(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	task, err := client.CreateTask(context.Background(), service.TaskInput{Title: "x", Status: service.StatusTodo})
	require.NoError(t, err)
	assert.Equal(t, service.Task{}, task)
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPost, (*reqs)[0].Method)
}

func TestClient_UpdateTask_NoContent(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	task, err := client.UpdateTask(context.Background(), 1, service.TaskInput{Title: "x", Status: service.StatusDone})
	require.NoError(t, err)
	assert.Equal(t, service.Task{}, task)
}

func TestClient_MutationIgnoresNonJSONBody(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "created")
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	_, err := client.CreateTask(context.Background(), service.TaskInput{Title: "x"})
	assert.NoError(t, err)
	_, err = client.UpdateTask(context.Background(), 1, service.TaskInput{Title: "x"})
	assert.NoError(t, err)
	assert.NoError(t, client.DeleteTask(context.Background(), 1))
}

func TestClient_GetTask_EmptyBodyIsError(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	_, err := client.GetTask(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestNew_UsesStoredToken(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "ana", "email": "ana@example.com", "is_active": true})
	})

	dir := t.TempDir()
	token := `{"access_token":"secret-token","token_type":"bearer"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.TokenFile), []byte(token), 0600))

	client, err := restapi.New(context.Background(), &config.Config{Dir: dir, BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	require.Len(t, *reqs, 1)
	assert.Equal(t, "Bearer secret-token", (*reqs)[0].Auth)
}

func TestNew_WithoutTokenSendsNoAuth(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	client, err := restapi.New(context.Background(), &config.Config{Dir: t.TempDir(), BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	assert.Empty(t, (*reqs)[0].Auth)
}

func TestNew_CorruptToken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.TokenFile), []byte("{"), 0600))

	_, err := restapi.New(context.Background(), &config.Config{Dir: dir, BaseURL: "http://localhost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, restapi.ErrInvalidToken)
}

func TestClient_Login(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "jwt", "token_type": "bearer"})
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	token, err := client.Login(context.Background(), "ana", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)
	assert.Equal(t, "/auth/login", (*reqs)[0].Path)
	assert.JSONEq(t, `{"username":"ana","password":"pw"}`, (*reqs)[0].Body)
}

func TestClient_LoginWrongPassword(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect password"})
	})
	client := restapi.NewWithHTTPClient(srv.URL, srv.Client())

	_, err := client.Login(context.Background(), "ana", "nope")
	require.Error(t, err)
	assert.True(t, service.IsUnauthorized(err))
}
