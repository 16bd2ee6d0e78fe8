// Package exitcode defines exit codes for the CLI.
package exitcode

// Process exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown list or task, duplicate name).
	UserError = 1

	// AuthError indicates a Google login or config error.
	AuthError = 2

	// StorageError indicates the store could not be read, parsed or written.
	StorageError = 3
)
