package service

import (
	"context"

	"libraryapi/internal/domain"
	repository "libraryapi/internal/repository/iface"
)

// ErrorLog records unhandled request failures.
type ErrorLog struct {
	repo repository.ErrorLogRepository
}

func NewErrorLog(repo repository.ErrorLogRepository) *ErrorLog {
	return &ErrorLog{repo: repo}
}

func (l *ErrorLog) RecordError(ctx context.Context, message, stackTrace string) error {
	return l.repo.Create(ctx, domain.NewErrorRecord(message, stackTrace))
}
