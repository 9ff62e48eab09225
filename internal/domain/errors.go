package domain

import "errors"

// ErrNotFound is returned by repositories when the addressed record does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrConflict is returned when a write collides with an existing record.
var ErrConflict = errors.New("resource already exists")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
