package repositories

import "errors"

// ErrNotFound is returned when no stored session matches.
type ErrNotFound struct{}

func (e *ErrNotFound) Error() string {
	return "session not found"
}

func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}
