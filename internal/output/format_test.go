package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"todoctl/internal/output"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

func sampleTasks() []service.Task {
	return []service.Task{
		{
			ID:          1,
			Title:       "Ship release",
			Description: "Tag and publish",
			Status:      service.StatusDoing,
			CreatedAt:   time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:          12,
			Title:       "   ",
			Description: "line one\nline two",
			Status:      service.StatusTodo,
			CreatedAt:   time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC),
		},
		{
			ID:        305,
			Title:     "Call Bob",
			Status:    service.StatusCancelled,
			CreatedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestRenderTasks(t *testing.T) {
	var buf bytes.Buffer
	output.RenderTasks(&buf, sampleTasks())
	testutil.Golden(t, "render_tasks", buf.Bytes())
}

func TestRenderTasks_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.RenderTasks(&buf, nil)
	testutil.Golden(t, "render_empty", buf.Bytes())

	if buf.String() != output.NoTasksPlaceholder+"\n" {
		t.Errorf("expected only the placeholder, got %q", buf.String())
	}
}

func TestRenderTasks_OneBlockPerTask(t *testing.T) {
	tasks := sampleTasks()
	var buf bytes.Buffer
	output.RenderTasks(&buf, tasks)

	blocks := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n\n")
	if len(blocks) != len(tasks) {
		t.Fatalf("expected %d blocks, got %d", len(tasks), len(blocks))
	}
	for i, task := range tasks {
		if !strings.Contains(blocks[i], string(task.Status)) {
			t.Errorf("block %d missing status %q", i, task.Status)
		}
		if !strings.Contains(blocks[i], task.CreatedAt.Format(output.DateLayout)) {
			t.Errorf("block %d missing creation date", i)
		}
	}
}

func TestRenderTasks_Pure(t *testing.T) {
	var first, second bytes.Buffer
	output.RenderTasks(&first, sampleTasks())
	output.RenderTasks(&second, sampleTasks())
	if first.String() != second.String() {
		t.Error("rendering the same collection twice should be identical")
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	output.RenderError(&buf)
	if buf.String() != "error loading tasks\n" {
		t.Errorf("unexpected placeholder %q", buf.String())
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := output.RenderJSON(&buf, sampleTasks()[:1]); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0]["status"] != "Doing" || got[0]["status_class"] != "doing" {
		t.Errorf("unexpected status fields: %v", got[0])
	}
	if got[0]["title"] != "Ship release" {
		t.Errorf("unexpected title: %v", got[0]["title"])
	}
}

func TestRenderJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := output.RenderJSON(&buf, nil); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestRenderJSONTask(t *testing.T) {
	var buf bytes.Buffer
	if err := output.RenderJSONTask(&buf, sampleTasks()[0]); err != nil {
		t.Fatalf("RenderJSONTask: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("expected a JSON object: %v", err)
	}
	if got["title"] != "Ship release" || got["status_class"] != "doing" {
		t.Errorf("unexpected object: %v", got)
	}
}

// flakyWriter fails its first write only.
type flakyWriter struct {
	bytes.Buffer
	failed bool
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	if !w.failed {
		w.failed = true
		return 0, errors.New("broken pipe")
	}
	return w.Buffer.Write(p)
}

func TestJSONView_WriteFailure(t *testing.T) {
	w := &flakyWriter{}
	view := output.NewJSONView(w)

	view.Render(sampleTasks())

	if view.Err() == nil || !strings.Contains(view.Err().Error(), "broken pipe") {
		t.Errorf("expected write error, got %v", view.Err())
	}
	if w.String() != "error loading tasks\n" {
		t.Errorf("expected placeholder after failed render, got %q", w.String())
	}
}

func TestFormatStatuses(t *testing.T) {
	var buf bytes.Buffer
	output.FormatStatuses(&buf)
	expected := "To do      to-do\nDoing      doing\nDone       done\nCancelled  cancelled\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestTerminalView(t *testing.T) {
	var buf bytes.Buffer
	view := output.NewTerminalView(&buf)

	view.Render(nil)
	view.RenderError()
	if buf.String() != "no tasks yet\nerror loading tasks\n" {
		t.Errorf("unexpected view output %q", buf.String())
	}
}

func TestTerminalAlerter(t *testing.T) {
	var buf bytes.Buffer
	output.NewTerminalAlerter(&buf).Alert("failed to create task")
	if buf.String() != "error: failed to create task\n" {
		t.Errorf("unexpected alert %q", buf.String())
	}
}
