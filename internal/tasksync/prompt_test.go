package tasksync_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/service"
	"todoctl/internal/tasksync"
)

func currentTask() service.Task {
	return service.Task{ID: 3, Title: "Ship", Description: "soon", Status: service.StatusTodo}
}

func TestPrompter_CollectKeepsEmptyAnswers(t *testing.T) {
	var out bytes.Buffer
	p := tasksync.NewPrompter(strings.NewReader("\n\ndoing\n"), &out)

	req, err := p.Collect(context.Background(), currentTask())
	require.NoError(t, err)

	assert.Equal(t, tasksync.EditRequest{Title: "Ship", Description: "soon", Status: service.StatusDoing}, req)
	assert.Contains(t, out.String(), "title [Ship]: ")
	assert.Contains(t, out.String(), "description [soon]: ")
	assert.Contains(t, out.String(), "statuses: To do, Doing, Done, Cancelled")
	assert.Contains(t, out.String(), "status [To do]: ")
}

func TestPrompter_CollectReplacesAll(t *testing.T) {
	p := tasksync.NewPrompter(strings.NewReader("New title\r\nNew desc\nDone"), &bytes.Buffer{})

	req, err := p.Collect(context.Background(), currentTask())
	require.NoError(t, err)
	assert.Equal(t, "New title", req.Title)
	assert.Equal(t, "New desc", req.Description)
	assert.Equal(t, service.StatusDone, req.Status)
}

func TestPrompter_CollectUnknownStatusFailsValidation(t *testing.T) {
	p := tasksync.NewPrompter(strings.NewReader("\n\nBlocked\n"), &bytes.Buffer{})

	req, err := p.Collect(context.Background(), currentTask())
	require.NoError(t, err)
	assert.Equal(t, service.Status("Blocked"), req.Status)
	assert.ErrorIs(t, req.Validate(), tasksync.ErrInvalidEdit)
}

func TestPrompter_CollectEOFCancels(t *testing.T) {
	inputs := []string{"", "only title\n", "t\nd\n"}
	for _, in := range inputs {
		p := tasksync.NewPrompter(strings.NewReader(in), &bytes.Buffer{})
		_, err := p.Collect(context.Background(), currentTask())
		assert.ErrorIs(t, err, tasksync.ErrCancelled, "input %q", in)
	}
}

func TestPrompter_CollectHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := tasksync.NewPrompter(strings.NewReader("a\nb\nc\n"), &bytes.Buffer{})
	_, err := p.Collect(ctx, currentTask())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" y \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := tasksync.NewPrompter(strings.NewReader(tt.input), &out)
		assert.Equal(t, tt.want, p.Confirm("delete task 1?"), "input %q", tt.input)
		assert.True(t, strings.HasPrefix(out.String(), "delete task 1? [y/N] "))
	}
}

func TestEditRequest_Validate(t *testing.T) {
	for _, s := range service.Statuses {
		assert.NoError(t, tasksync.EditRequest{Status: s}.Validate(), s)
	}
	assert.ErrorIs(t, tasksync.EditRequest{Status: "doing"}.Validate(), tasksync.ErrInvalidEdit)
	assert.ErrorIs(t, tasksync.EditRequest{}.Validate(), tasksync.ErrInvalidEdit)
	assert.NoError(t, tasksync.EditRequest{Title: "", Status: service.StatusDone}.Validate(), "empty title is allowed")
}

func TestOverrides_Empty(t *testing.T) {
	assert.True(t, tasksync.Overrides{}.Empty())
	title := "x"
	assert.False(t, tasksync.Overrides{Title: &title}.Empty())
}
