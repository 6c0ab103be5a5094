// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion. A declined delete is a success.
	Success = 0

	// UserError indicates a user error (bad args, invalid status, task not
	// found, cancelled edit).
	UserError = 1

	// AuthError indicates an auth/config error (bad token, rejected credentials).
	AuthError = 2

	// BackendError indicates a transport failure or a non-2xx response.
	BackendError = 3
)
