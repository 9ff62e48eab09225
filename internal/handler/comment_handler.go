package handler

import (
	"context"
	"fmt"
	"net/http"

	"libraryapi/commons/error_handler"
	"libraryapi/commons/handler"
	"libraryapi/internal/dto"
	"libraryapi/internal/hateoas"
	"libraryapi/internal/logger"
	"libraryapi/internal/service"
)

// Comments are nested under their book; the book id shares the ":id" segment
// with the book routes.
type CommentHandler struct {
	logger   logger.Logger
	comments *service.CommentService
}

func NewCommentHandler(log logger.Logger, comments *service.CommentService) *CommentHandler {
	return &CommentHandler{
		logger:   log.With(logger.String("component", "comment_handler")),
		comments: comments,
	}
}

func (h *CommentHandler) ListCommentsService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) ([]dto.CommentDTO, *error_handler.ErrorCollection) {
	bookID, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return nil, errs
	}

	comments, err := h.comments.List(ctx, bookID)
	if err != nil {
		return nil, serviceErrors(h.logger.WithContext(ctx), "list comments", err)
	}

	return dto.NewCommentDTOs(comments), nil
}

func (h *CommentHandler) GetCommentService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) (dto.CommentDTO, *error_handler.ErrorCollection) {
	bookID, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return dto.CommentDTO{}, errs
	}

	comment, err := h.comments.Get(ctx, bookID, ioutil.PathParams["commentId"])
	if err != nil {
		return dto.CommentDTO{}, serviceErrors(h.logger.WithContext(ctx), "get comment", err)
	}

	return dto.NewCommentDTO(comment), nil
}

func (h *CommentHandler) CreateCommentService(
	ctx context.Context,
	ioutil *handler.RequestIo[service.CommentInput],
) (dto.CommentDTO, *error_handler.ErrorCollection) {
	bookID, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return dto.CommentDTO{}, errs
	}

	comment, err := h.comments.Create(ctx, bookID, ioutil.Body, ioutil.Identity)
	if err != nil {
		return dto.CommentDTO{}, serviceErrors(h.logger.WithContext(ctx), "create comment", err)
	}

	ioutil.SetStatus(http.StatusCreated)
	ioutil.SetHeader("Location", fmt.Sprintf("%s%s/%d/comments/%s",
		hateoas.BaseURL(ioutil.Request), BooksPath, bookID, comment.CommentID))
	return dto.NewCommentDTO(comment), nil
}

func (h *CommentHandler) PatchCommentService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.PatchRequest],
) (struct{}, *error_handler.ErrorCollection) {
	bookID, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return struct{}{}, errs
	}

	err := h.comments.Patch(ctx, bookID, ioutil.PathParams["commentId"], ioutil.RawBody, ioutil.Identity)
	if err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "patch comment", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}

func (h *CommentHandler) DeleteCommentService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) (struct{}, *error_handler.ErrorCollection) {
	bookID, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return struct{}{}, errs
	}

	if err := h.comments.Delete(ctx, bookID, ioutil.PathParams["commentId"], ioutil.Identity); err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "delete comment", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}
