package commands

import (
	"errors"
	"testing"
)

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int64
		wantErr string
	}{
		{"plain", []string{"3"}, 3, ""},
		{"hash prefix", []string{"#42"}, 42, ""},
		{"large", []string{"9007199254740993"}, 9007199254740993, ""},
		{"zero", []string{"0"}, 0, "invalid task id: 0"},
		{"negative", []string{"-1"}, 0, "invalid task id: -1"},
		{"plus sign", []string{"+1"}, 0, "invalid task id: +1"},
		{"letters", []string{"abc"}, 0, "invalid task id: abc"},
		{"bare hash", []string{"#"}, 0, "invalid task id: #"},
		{"extra arg", []string{"1", "2"}, 0, "unexpected argument: 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTaskID(tt.args)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseTaskID_Required(t *testing.T) {
	_, err := ParseTaskID(nil)
	if !errors.Is(err, ErrTaskIDRequired) {
		t.Errorf("expected ErrTaskIDRequired, got %v", err)
	}
}
