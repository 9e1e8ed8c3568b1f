package random

import "errors"

var (
	// ErrUnsupportedType is returned when no randomizer is registered for a requested value type.
	ErrUnsupportedType = errors.New("unsupported value type")

	// ErrInvalidRange is returned when a randomizer is asked for a range where min is not below max.
	ErrInvalidRange = errors.New("invalid range")
)
