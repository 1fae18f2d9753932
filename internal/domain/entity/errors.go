package entity

import "errors"

var (
	// ErrMalformedAction means the model response could not be turned into
	// a well-formed Action.
	ErrMalformedAction = errors.New("malformed action")

	// ErrTargetNotFound means no element on the page matched the target.
	ErrTargetNotFound = errors.New("target not found")

	// ErrAmbiguousTarget means more than one element matched the target.
	// The resolver never picks one of them.
	ErrAmbiguousTarget = errors.New("ambiguous target")
)
