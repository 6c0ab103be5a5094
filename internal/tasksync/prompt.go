package tasksync

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"todoctl/internal/service"
)

// Prompter asks questions on a line-oriented terminal. It implements both
// Confirmer and Collector. End of input cancels.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next answer without its line ending.
// io.EOF is returned only when nothing was typed before end of input.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm implements Confirmer. Only "y" or "yes" confirm.
func (p *Prompter) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	answer, err := p.readLine()
	if err != nil {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// Collect implements Collector. Each prompt shows the current value;
// an empty answer keeps it. A recognizable status spelling is normalized,
// anything else is passed on for validation to reject.
func (p *Prompter) Collect(ctx context.Context, current service.Task) (EditRequest, error) {
	req := RequestFrom(current)

	title, err := p.ask(ctx, "title", current.Title)
	if err != nil {
		return EditRequest{}, err
	}
	req.Title = title

	description, err := p.ask(ctx, "description", current.Description)
	if err != nil {
		return EditRequest{}, err
	}
	req.Description = description

	fmt.Fprintf(p.out, "statuses: %s\n", statusChoices())
	status, err := p.ask(ctx, "status", string(current.Status))
	if err != nil {
		return EditRequest{}, err
	}
	if parsed, perr := service.ParseStatus(status); perr == nil {
		req.Status = parsed
	} else {
		req.Status = service.Status(status)
	}

	return req, nil
}

func (p *Prompter) ask(ctx context.Context, field, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s [%s]: ", field, current)
	answer, err := p.readLine()
	if err != nil {
		fmt.Fprintln(p.out)
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

func statusChoices() string {
	names := make([]string, len(service.Statuses))
	for i, s := range service.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
