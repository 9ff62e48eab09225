package repository

import (
	"context"

	"libraryapi/internal/domain"
)

// ErrorLogRepository persists unhandled failures
type ErrorLogRepository interface {
	Create(ctx context.Context, record *domain.ErrorRecord) error
}
