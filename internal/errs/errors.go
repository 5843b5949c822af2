// Package errs defines the error taxonomy shared by the pipeline stages and
// the dashboard. Callers wrap these sentinels with context and test them with
// errors.Is.
package errs

import "errors"

var (
	// ErrFetch reports that the remote source could not be retrieved.
	ErrFetch = errors.New("fetch failed")

	// ErrSchema reports a missing, colliding or unreadable column layout.
	ErrSchema = errors.New("schema error")

	// ErrSnapshot reports a snapshot file that is missing or cannot be decoded.
	ErrSnapshot = errors.New("snapshot unavailable")
)
