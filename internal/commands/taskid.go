package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTaskIDRequired indicates no task ID was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task ID from the first positional argument.
// Accepted forms are "3" and "#3"; IDs are positive. Extra arguments are rejected.
func ParseTaskID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	raw := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	if raw == "" || strings.ContainsAny(raw, "+-") {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}
