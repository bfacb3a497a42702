package batch

import "errors"

var (
	// ErrRunnerReleased is returned by Run after Release has been called.
	ErrRunnerReleased = errors.New("batch runner released")
)
