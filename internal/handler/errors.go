package handler

import (
	"errors"
	"strconv"

	"libraryapi/commons/error_handler"
	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	"libraryapi/internal/service"
)

const unexpectedError = "An unexpected error has occurred"

// notFoundMessages maps service not-found sentinels to user-facing messages.
var notFoundMessages = []struct {
	err     error
	message string
}{
	{service.ErrAuthorNotFound, "Author not found"},
	{service.ErrBookNotFound, "Book not found"},
	{service.ErrCommentNotFound, "Comment not found"},
	{service.ErrUserNotFound, "User not found"},
}

// serviceErrors translates a service error into an error collection. Errors
// without a client-facing meaning are logged and reported as 500.
func serviceErrors(log logger.Logger, action string, err error) *error_handler.ErrorCollection {
	var validation *service.ValidationError
	var missing *service.MissingAuthorsError

	switch {
	case errors.As(err, &validation):
		ec := error_handler.NewErrorCollection()
		for _, msg := range validation.Messages {
			ec.AddError(error_handler.CodeValidationError, msg, nil)
		}
		return ec
	case errors.As(err, &missing):
		return error_handler.NewErrorCollection().
			AddError(error_handler.CodeValidationError, "Some of the authors do not exist", missing.IDs)
	case errors.Is(err, service.ErrNoAuthors):
		return error_handler.Single(error_handler.CodeValidationError, "Cannot create a book without authors")
	case errors.Is(err, service.ErrInvalidPatch):
		return error_handler.Single(error_handler.CodeValidationError, "Invalid JSON Patch document")
	case errors.Is(err, service.ErrIncorrectLogin):
		return error_handler.Single(error_handler.CodeValidationError, "Incorrect login")
	case errors.Is(err, service.ErrForbidden):
		return error_handler.Single(error_handler.CodeForbidden, "You are not allowed to modify this resource")
	case domain.IsNotFound(err):
		for _, nf := range notFoundMessages {
			if errors.Is(err, nf.err) {
				return error_handler.Single(error_handler.CodeNotFound, nf.message)
			}
		}
		return error_handler.Single(error_handler.CodeNotFound, "Resource not found")
	}

	log.Error("failed to "+action, logger.Error(err))
	return error_handler.Single(error_handler.CodeInternalServerError, unexpectedError)
}

// pathID parses a numeric path parameter.
func pathID(params map[string]string, key string) (int64, *error_handler.ErrorCollection) {
	id, err := strconv.ParseInt(params[key], 10, 64)
	if err != nil || id < 1 {
		return 0, error_handler.Single(error_handler.CodeValidationError, "Invalid "+key+" path parameter")
	}
	return id, nil
}
