package clips

import "errors"

var (
	// ErrNotFound is returned when a clip ID does not exist.
	ErrNotFound = errors.New("clip not found")
	// ErrInvalidClip marks a record that fails load-time validation.
	ErrInvalidClip = errors.New("invalid clip record")
)
