package repository

import (
	"context"

	"libraryapi/internal/domain"
	"libraryapi/internal/query"
)

type BookPage struct {
	Books []*domain.Book
	Total int64
}

// BookRepository defines operations for books and their bylines
type BookRepository interface {
	List(ctx context.Context, page query.Page) (*BookPage, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int64) error
}
