// Package emoji holds the status symbols printed in front of CLI messages.
package emoji

const (
	// Success marks a completed import, delete or validation.
	Success = "✓"

	// Error marks a failed or stopped run.
	Error = "✗"

	// Warning marks a run that finished with non-fatal failures.
	Warning = "!"
)
