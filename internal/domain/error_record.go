package domain

import (
	"time"

	"github.com/google/uuid"
)

// ErrorRecord is an unhandled failure kept in the error log table.
type ErrorRecord struct {
	ErrorID    string `json:"error_id" dynamodbav:"error_id"`
	Message    string `json:"message" dynamodbav:"message"`
	StackTrace string `json:"stack_trace" dynamodbav:"stack_trace"`
	CreatedAt  int64  `json:"created_at" dynamodbav:"created_at"`
}

func NewErrorRecord(message, stackTrace string) *ErrorRecord {
	return &ErrorRecord{
		ErrorID:    uuid.New().String(),
		Message:    message,
		StackTrace: stackTrace,
		CreatedAt:  time.Now().UnixMilli(),
	}
}
