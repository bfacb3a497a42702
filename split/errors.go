package split

import "errors"

var (
	// ErrTableRequired is returned when a rule table is not provided.
	ErrTableRequired = errors.New("rule table required")

	// ErrInvalidWindowBound is returned for an unknown WindowBound value.
	ErrInvalidWindowBound = errors.New("invalid window bound")
)
