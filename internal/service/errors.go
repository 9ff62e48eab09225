package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"libraryapi/internal/domain"
	"libraryapi/internal/validation"
)

var (
	// ErrInvalidPatch marks a JSON Patch document that is malformed or cannot be applied.
	ErrInvalidPatch = errors.New("invalid patch document")
	ErrForbidden    = errors.New("operation not allowed for this user")
	// ErrIncorrectLogin hides whether the email or the password was wrong.
	ErrIncorrectLogin = errors.New("incorrect login")
	ErrNoAuthors      = errors.New("cannot create a book without authors")

	ErrBookNotFound    = fmt.Errorf("book: %w", domain.ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment: %w", domain.ErrNotFound)
	ErrAuthorNotFound  = fmt.Errorf("author: %w", domain.ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user: %w", domain.ErrNotFound)
)

// ValidationError carries rule violations of an input document.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func validate(doc any) error {
	if err := validation.Struct(doc); err != nil {
		return &ValidationError{Messages: validation.Messages(err)}
	}
	return nil
}

// MissingAuthorsError lists requested author ids that do not exist.
type MissingAuthorsError struct {
	IDs []int64
}

func (e *MissingAuthorsError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "authors do not exist: " + strings.Join(parts, ",")
}

// notFound rewraps a repository not-found error as the given sentinel.
func notFound(err, sentinel error) error {
	if domain.IsNotFound(err) {
		return sentinel
	}
	return err
}
