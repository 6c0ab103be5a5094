package server_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"todoctl/internal/backend/restapi"
	"todoctl/internal/output"
	"todoctl/internal/service"
	"todoctl/internal/tasksync"
)

func newLiveClient(t *testing.T) (*httptest.Server, *restapi.Client) {
	t.Helper()
	ts := httptest.NewServer(newTestServer(t).Handler())
	t.Cleanup(ts.Close)
	return ts, restapi.NewWithHTTPClient(ts.URL, ts.Client())
}

func TestEndToEnd_ControllerAgainstServer(t *testing.T) {
	_, client := newLiveClient(t)
	ctx := context.Background()

	var screen, alerts bytes.Buffer
	ctrl := tasksync.New(client, output.NewTerminalView(&screen), output.NewTerminalAlerter(&alerts))

	require.NoError(t, ctrl.LoadTasks(ctx))
	assert.Equal(t, output.NoTasksPlaceholder+"\n", screen.String())

	form := &tasksync.Draft{Title: "Buy milk", Description: "2 litres"}
	require.NoError(t, ctrl.CreateTask(ctx, form))
	assert.Equal(t, tasksync.Draft{}, *form, "form is reset after a create")
	assert.Contains(t, screen.String(), "   1  Buy milk [To do]")
	assert.Contains(t, screen.String(), "      2 litres")

	done := service.StatusDone
	require.NoError(t, ctrl.EditTask(ctx, 1, tasksync.Overrides{Status: &done}))
	assert.Contains(t, screen.String(), "   1  Buy milk [Done]")

	task, err := client.GetTask(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2 litres", task.Description, "edit resends unchanged fields")

	require.NoError(t, ctrl.DeleteTask(ctx, 1, tasksync.ConfirmFunc(func(string) bool { return true })))
	tasks, err := client.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.Empty(t, alerts.String())
}

func TestEndToEnd_MissingTask(t *testing.T) {
	_, client := newLiveClient(t)
	ctx := context.Background()

	var screen, alerts bytes.Buffer
	ctrl := tasksync.New(client, output.NewTerminalView(&screen), output.NewTerminalAlerter(&alerts))

	err := ctrl.EditTask(ctx, 7, tasksync.Overrides{})
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
	assert.Contains(t, alerts.String(), "failed to fetch task")

	err = ctrl.DeleteTask(ctx, 7, tasksync.ConfirmFunc(func(string) bool { return true }))
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
	assert.Contains(t, alerts.String(), "failed to delete task")
}

func TestEndToEnd_Accounts(t *testing.T) {
	ts, client := newLiveClient(t)
	ctx := context.Background()

	user, err := client.Register(ctx, "ana", "ana@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	_, err = client.Register(ctx, "ana", "x@example.com", "pw")
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)

	_, err = client.Me(ctx)
	assert.True(t, service.IsUnauthorized(err))

	token, err := client.Login(ctx, "ana", "pw")
	require.NoError(t, err)

	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	me, err := restapi.NewWithHTTPClient(ts.URL, authed).Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, me)
}
