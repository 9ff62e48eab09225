package repository

import (
	"context"

	"libraryapi/internal/domain"
)

// CommentRepository defines operations for book comments
type CommentRepository interface {
	// ListByBook returns the book's visible comments, newest first.
	ListByBook(ctx context.Context, bookID int64) ([]*domain.Comment, error)
	// GetByID returns domain.ErrNotFound for missing or soft-deleted comments.
	GetByID(ctx context.Context, bookID int64, commentID string) (*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) error
	UpdateBody(ctx context.Context, bookID int64, commentID, body string) error
	SoftDelete(ctx context.Context, bookID int64, commentID string) error
}
