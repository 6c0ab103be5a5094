// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"todoctl/internal/service"
)

const (
	// NoTasksPlaceholder is rendered instead of an empty collection.
	NoTasksPlaceholder = "no tasks yet"

	// ErrorPlaceholder is rendered when the collection could not be loaded.
	ErrorPlaceholder = "error loading tasks"

	// DateLayout is the creation date format.
	DateLayout = "2006-01-02"
)

// RenderTasks writes the whole collection, in the order given.
// It is a pure function of tasks: an empty collection renders exactly the
// placeholder line, otherwise one block per task separated by blank lines.
func RenderTasks(w io.Writer, tasks []service.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, NoTasksPlaceholder)
		return
	}
	for i, task := range tasks {
		if i > 0 {
			fmt.Fprintln(w)
		}
		FormatTask(w, task)
	}
}

// RenderError writes the load error placeholder.
func RenderError(w io.Writer) {
	fmt.Fprintln(w, ErrorPlaceholder)
}

// FormatTask writes one task block:
//
//	{ID:>4}  {TITLE} [{STATUS}]
//	      {DESCRIPTION}
//	      created {YYYY-MM-DD}
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s [%s]\n", task.ID, normalizeTitle(task.Title), task.Status)
	fmt.Fprintf(w, "      %s\n", normalizeDescription(task.Description))
	fmt.Fprintf(w, "      created %s\n", task.CreatedAt.Format(DateLayout))
}

type jsonTask struct {
	service.Task
	StatusClass string `json:"status_class"`
}

// RenderJSON writes the collection as an indented JSON array.
// Each element carries the status class next to the server fields.
func RenderJSON(w io.Writer, tasks []service.Task) error {
	items := make([]jsonTask, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, jsonTask{Task: task, StatusClass: task.Status.Class()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// RenderJSONTask writes a single task as an indented JSON object.
func RenderJSONTask(w io.Writer, task service.Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonTask{Task: task, StatusClass: task.Status.Class()})
}

// FormatStatuses lists the status enumeration with each class.
func FormatStatuses(w io.Writer) {
	for _, s := range service.Statuses {
		fmt.Fprintf(w, "%-10s %s\n", s, s.Class())
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeDescription is normalizeTitle for descriptions.
func normalizeDescription(desc string) string {
	desc = flatten(desc)
	if strings.TrimSpace(desc) == "" {
		return "(no description)"
	}
	return desc
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
