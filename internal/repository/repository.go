package repository

import "errors"

// ErrNotFound is returned when a single-row lookup matches nothing.
// Callers treat it as a normal outcome, not a failure.
var ErrNotFound = errors.New("not found")
