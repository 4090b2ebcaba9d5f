package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for unknown device ids and color names
	ErrNotFound = errors.New("not found")

	// ErrMissingFrameSource is returned when a render request carries
	// neither a generated nor an imported frame
	ErrMissingFrameSource = errors.New("missing frame source")

	// ErrDecode matches any *DecodeError via errors.Is
	ErrDecode = errors.New("image decode failed")
)

// DecodeError reports bytes that could not be decoded as an image
type DecodeError struct {
	Source string // "screenshot" or "frame"
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
