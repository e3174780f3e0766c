package health

import "errors"

var (
	// ErrCheckFailed is returned by Run when one or more checks fail.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check that ran past the run's deadline.
	ErrCheckTimeout = errors.New("health: check timeout")
)
