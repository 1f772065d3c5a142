package physics

import "errors"

var (
	// ErrDuplicateBody indicates a body id that is already registered.
	ErrDuplicateBody = errors.New("physics: body already registered")

	// ErrInvalidBody indicates a body with an empty id, nil handle or non-positive mass.
	ErrInvalidBody = errors.New("physics: invalid body")
)
