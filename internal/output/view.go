package output

import (
	"fmt"
	"io"

	"todoctl/internal/service"
)

// TerminalView is a render target that rewrites the whole list on every render.
type TerminalView struct {
	w    io.Writer
	json bool
	err  error
}

// NewTerminalView creates a text view writing to w.
func NewTerminalView(w io.Writer) *TerminalView {
	return &TerminalView{w: w}
}

// NewJSONView creates a view writing the collection as JSON.
func NewJSONView(w io.Writer) *TerminalView {
	return &TerminalView{w: w, json: true}
}

// Render replaces the displayed list with tasks.
func (v *TerminalView) Render(tasks []service.Task) {
	if v.json {
		if err := RenderJSON(v.w, tasks); err != nil {
			v.err = fmt.Errorf("render json: %w", err)
			RenderError(v.w)
		}
		return
	}
	RenderTasks(v.w, tasks)
}

// Err returns the last JSON render failure, if any.
func (v *TerminalView) Err() error {
	return v.err
}

// RenderError replaces the displayed list with the error placeholder.
func (v *TerminalView) RenderError() {
	RenderError(v.w)
}

// TerminalAlerter prints user-visible alerts as error lines.
type TerminalAlerter struct {
	w io.Writer
}

// NewTerminalAlerter creates an alerter writing to w (normally stderr).
func NewTerminalAlerter(w io.Writer) *TerminalAlerter {
	return &TerminalAlerter{w: w}
}

// Alert writes "error: <msg>".
func (a *TerminalAlerter) Alert(msg string) {
	fmt.Fprintf(a.w, "error: %s\n", msg)
}
