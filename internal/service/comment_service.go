package service

import (
	"context"

	"libraryapi/internal/auth"
	"libraryapi/internal/cache/invalidation"
	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	repository "libraryapi/internal/repository/iface"
)

type CommentInput struct {
	Body string `json:"body" binding:"required"`
}

// CommentPatch is the document JSON Patch operations on a comment apply to.
type CommentPatch struct {
	Body string `json:"body" binding:"required"`
}

type CommentService struct {
	comments repository.CommentRepository
	books    repository.BookRepository
	invalid  invalidation.Coordinator
	logger   logger.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	books repository.BookRepository,
	invalid invalidation.Coordinator,
	log logger.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		books:    books,
		invalid:  invalid,
		logger:   log.With(logger.String("component", "comment_service")),
	}
}

func (s *CommentService) requireBook(ctx context.Context, bookID int64) error {
	ok, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookNotFound
	}
	return nil
}

func (s *CommentService) List(ctx context.Context, bookID int64) ([]*domain.Comment, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.comments.ListByBook(ctx, bookID)
}

func (s *CommentService) Get(ctx context.Context, bookID int64, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, bookID, commentID)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, bookID int64, in CommentInput, caller auth.Identity) (*domain.Comment, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	comment := domain.NewComment(bookID, in.Body, caller.UserID, caller.Email)
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.invalid.Invalidate(ctx, invalidation.TagComments)
	return comment, nil
}

// owned loads a visible comment and checks that caller wrote it.
func (s *CommentService) owned(ctx context.Context, bookID int64, commentID string, caller auth.Identity) (*domain.Comment, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, bookID, commentID)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}

	if comment.UserID != caller.UserID {
		s.logger.Warn("rejected change to another user's comment",
			logger.String("comment_id", commentID),
			logger.String("user_id", caller.UserID))
		return nil, ErrForbidden
	}

	return comment, nil
}

func (s *CommentService) Patch(ctx context.Context, bookID int64, commentID string, patchJSON []byte, caller auth.Identity) error {
	comment, err := s.owned(ctx, bookID, commentID, caller)
	if err != nil {
		return err
	}

	patched, err := applyPatch(CommentPatch{Body: comment.Body}, patchJSON)
	if err != nil {
		return err
	}
	if err := validate(patched); err != nil {
		return err
	}

	if err := s.comments.UpdateBody(ctx, bookID, commentID, patched.Body); err != nil {
		return notFound(err, ErrCommentNotFound)
	}

	s.invalid.Invalidate(ctx, invalidation.TagComments)
	return nil
}

func (s *CommentService) Delete(ctx context.Context, bookID int64, commentID string, caller auth.Identity) error {
	if _, err := s.owned(ctx, bookID, commentID, caller); err != nil {
		return err
	}

	if err := s.comments.SoftDelete(ctx, bookID, commentID); err != nil {
		return notFound(err, ErrCommentNotFound)
	}

	s.invalid.Invalidate(ctx, invalidation.TagComments)
	return nil
}
