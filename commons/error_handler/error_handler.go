package error_handler

import (
	"net/http"

	"libraryapi/commons/response"
)

type ErrorCollection struct {
	errors []response.Errors
}

func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		errors: make([]response.Errors, 0),
	}
}

func (ec *ErrorCollection) AddError(code int, message string, data any) *ErrorCollection {
	ec.errors = append(ec.errors, response.Errors{
		ErrorCode: code,
		Message:   message,
		Data:      data,
	})
	return ec
}

func (ec *ErrorCollection) HasErrors() bool {
	return ec != nil && len(ec.errors) > 0
}

func (ec *ErrorCollection) GetErrors() []response.Errors {
	return ec.errors
}

// GetHTTPStatus returns 500 if any error is a server error, otherwise the first
// client error code in the collection.
func (ec *ErrorCollection) GetHTTPStatus() int {
	if !ec.HasErrors() {
		return http.StatusOK
	}

	status := 0
	for _, err := range ec.errors {
		if err.ErrorCode >= 500 {
			return http.StatusInternalServerError
		}
		if status == 0 && err.ErrorCode >= 400 {
			status = err.ErrorCode
		}
	}

	if status == 0 {
		return http.StatusBadRequest
	}
	return status
}

// Common error codes
const (
	CodeValidationError     = 400
	CodeUnauthorized        = 401
	CodeForbidden           = 403
	CodeNotFound            = 404
	CodeConflict            = 409
	CodeInternalServerError = 500
)

// GetInternalServerError is the envelope entry for unhandled failures.
func GetInternalServerError(message string) response.Errors {
	return response.Errors{
		ErrorCode: CodeInternalServerError,
		Message:   message,
		Data:      nil,
	}
}

// Single builds a collection holding one error.
func Single(code int, message string) *ErrorCollection {
	return NewErrorCollection().AddError(code, message, nil)
}
