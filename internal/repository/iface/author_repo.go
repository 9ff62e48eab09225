package repository

import (
	"context"

	"libraryapi/internal/domain"
	"libraryapi/internal/query"
)

// AuthorPage is one window of an ordered author listing plus the total match count.
type AuthorPage struct {
	Authors []*domain.Author
	Total   int64
}

// AuthorRepository defines operations for catalog authors
type AuthorRepository interface {
	// List returns authors ordered by names, without books.
	List(ctx context.Context, page query.Page) (*AuthorPage, error)
	// Search executes a filter plan. Books are loaded only when the plan asks for them.
	Search(ctx context.Context, plan query.Plan) (*AuthorPage, error)
	GetByID(ctx context.Context, id int64) (*domain.Author, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Author, error)
	// ExistingIDs returns the subset of ids that exist.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	Create(ctx context.Context, author *domain.Author) error
	// CreateBatch inserts all authors in one transaction.
	CreateBatch(ctx context.Context, authors []*domain.Author) error
	Update(ctx context.Context, author *domain.Author) error
	Delete(ctx context.Context, id int64) error
}
