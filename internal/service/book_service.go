package service

import (
	"context"

	"libraryapi/internal/cache/invalidation"
	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"
	repository "libraryapi/internal/repository/iface"
)

// BookInput is the body of book create and update requests.
type BookInput struct {
	Title     string  `json:"title" binding:"required,max=150"`
	AuthorIDs []int64 `json:"authorIds"`
}

type BookService struct {
	books   repository.BookRepository
	authors repository.AuthorRepository
	invalid invalidation.Coordinator
	logger  logger.Logger
}

func NewBookService(
	books repository.BookRepository,
	authors repository.AuthorRepository,
	invalid invalidation.Coordinator,
	log logger.Logger,
) *BookService {
	return &BookService{
		books:   books,
		authors: authors,
		invalid: invalid,
		logger:  log.With(logger.String("component", "book_service")),
	}
}

func (s *BookService) List(ctx context.Context, page query.Page) (*repository.BookPage, error) {
	return s.books.List(ctx, page)
}

func (s *BookService) Get(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}
	return book, nil
}

// checkAuthors requires at least one author and that every id exists.
func (s *BookService) checkAuthors(ctx context.Context, ids []int64) ([]int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, ErrNoAuthors
	}

	existing, err := s.authors.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingAuthorsError{IDs: missing}
	}

	return ids, nil
}

func (s *BookService) Create(ctx context.Context, in BookInput) (*domain.Book, error) {
	ids, err := s.checkAuthors(ctx, in.AuthorIDs)
	if err != nil {
		return nil, err
	}

	book := &domain.Book{Title: in.Title}
	book.SetAuthors(ids)

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}

	s.invalid.Invalidate(ctx, invalidation.TagBooks, invalidation.TagAuthors)
	return book, nil
}

func (s *BookService) Update(ctx context.Context, id int64, in BookInput) error {
	ids, err := s.checkAuthors(ctx, in.AuthorIDs)
	if err != nil {
		return err
	}

	book := &domain.Book{ID: id, Title: in.Title}
	book.SetAuthors(ids)

	if err := s.books.Update(ctx, book); err != nil {
		return notFound(err, ErrBookNotFound)
	}

	s.invalid.Invalidate(ctx, invalidation.TagBooks, invalidation.TagAuthors)
	return nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return notFound(err, ErrBookNotFound)
	}

	s.invalid.Invalidate(ctx, invalidation.TagBooks, invalidation.TagAuthors, invalidation.TagComments)
	return nil
}
