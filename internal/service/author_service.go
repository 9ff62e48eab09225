package service

import (
	"context"

	"libraryapi/internal/cache/invalidation"
	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"
	repository "libraryapi/internal/repository/iface"
)

// AuthorInput is the writable part of an author.
type AuthorInput struct {
	Names          string `json:"names" binding:"required,max=150,firstupper"`
	LastNames      string `json:"lastNames" binding:"required,max=150,firstupper"`
	Identification string `json:"identification" binding:"max=200"`
	Photo          string `json:"photo,omitempty" binding:"omitempty,url,max=500"`
}

func (in AuthorInput) toDomain(id int64) *domain.Author {
	return &domain.Author{
		ID:             id,
		Names:          in.Names,
		LastNames:      in.LastNames,
		Identification: in.Identification,
		Photo:          in.Photo,
	}
}

// AuthorPatch is the document JSON Patch operations on an author apply to.
type AuthorPatch struct {
	Names          string `json:"names" binding:"required,max=150,firstupper"`
	LastNames      string `json:"lastNames" binding:"required,max=150,firstupper"`
	Identification string `json:"identification" binding:"max=200"`
}

type AuthorService struct {
	repo    repository.AuthorRepository
	filter  *query.FilterBuilder
	invalid invalidation.Coordinator
	logger  logger.Logger
}

func NewAuthorService(
	repo repository.AuthorRepository,
	filter *query.FilterBuilder,
	invalid invalidation.Coordinator,
	log logger.Logger,
) *AuthorService {
	return &AuthorService{
		repo:    repo,
		filter:  filter,
		invalid: invalid,
		logger:  log.With(logger.String("component", "author_service")),
	}
}

func (s *AuthorService) List(ctx context.Context, page query.Page) (*repository.AuthorPage, error) {
	return s.repo.List(ctx, page)
}

// Search builds a plan from criteria and runs it.
func (s *AuthorService) Search(ctx context.Context, criteria query.AuthorCriteria) (*repository.AuthorPage, error) {
	return s.repo.Search(ctx, s.filter.BuildAuthorQuery(criteria))
}

func (s *AuthorService) Get(ctx context.Context, id int64) (*domain.Author, error) {
	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrAuthorNotFound)
	}
	return author, nil
}

// GetMany returns the authors with the given ids, failing when any is missing.
func (s *AuthorService) GetMany(ctx context.Context, ids []int64) ([]*domain.Author, error) {
	ids = uniqueIDs(ids)

	authors, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(authors) != len(ids) {
		return nil, ErrAuthorNotFound
	}
	return authors, nil
}

func (s *AuthorService) Create(ctx context.Context, in AuthorInput) (*domain.Author, error) {
	author := in.toDomain(0)
	if err := s.repo.Create(ctx, author); err != nil {
		return nil, err
	}

	s.invalid.Invalidate(ctx, invalidation.TagAuthors)
	return author, nil
}

func (s *AuthorService) CreateBatch(ctx context.Context, in []AuthorInput) ([]*domain.Author, error) {
	authors := make([]*domain.Author, len(in))
	for i, a := range in {
		authors[i] = a.toDomain(0)
	}

	if err := s.repo.CreateBatch(ctx, authors); err != nil {
		return nil, err
	}

	s.invalid.Invalidate(ctx, invalidation.TagAuthors)
	return authors, nil
}

// Update, Patch and Delete also evict books: book bylines embed author names.
func (s *AuthorService) Update(ctx context.Context, id int64, in AuthorInput) error {
	if err := s.repo.Update(ctx, in.toDomain(id)); err != nil {
		return notFound(err, ErrAuthorNotFound)
	}

	s.invalid.Invalidate(ctx, invalidation.TagAuthors, invalidation.TagBooks)
	return nil
}

// Patch applies a JSON Patch to the author's names and identification and
// re-validates the result before storing it.
func (s *AuthorService) Patch(ctx context.Context, id int64, patchJSON []byte) error {
	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrAuthorNotFound)
	}

	patched, err := applyPatch(AuthorPatch{
		Names:          author.Names,
		LastNames:      author.LastNames,
		Identification: author.Identification,
	}, patchJSON)
	if err != nil {
		return err
	}

	if err := validate(patched); err != nil {
		return err
	}

	author.Names = patched.Names
	author.LastNames = patched.LastNames
	author.Identification = patched.Identification

	if err := s.repo.Update(ctx, author); err != nil {
		return notFound(err, ErrAuthorNotFound)
	}

	s.logger.Debug("author patched", logger.Int64("author_id", id))
	s.invalid.Invalidate(ctx, invalidation.TagAuthors, invalidation.TagBooks)
	return nil
}

func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, ErrAuthorNotFound)
	}

	s.invalid.Invalidate(ctx, invalidation.TagAuthors, invalidation.TagBooks)
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
