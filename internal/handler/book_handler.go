package handler

import (
	"context"
	"net/http"
	"strconv"

	"libraryapi/commons/error_handler"
	"libraryapi/commons/handler"
	"libraryapi/internal/dto"
	"libraryapi/internal/hateoas"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"
	"libraryapi/internal/service"
)

const BooksPath = "/api/v1/books"

type BookHandler struct {
	logger logger.Logger
	books  *service.BookService
}

func NewBookHandler(log logger.Logger, books *service.BookService) *BookHandler {
	return &BookHandler{
		logger: log.With(logger.String("component", "book_handler")),
		books:  books,
	}
}

func (h *BookHandler) ListBooksService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) ([]dto.BookDTO, *error_handler.ErrorCollection) {
	page := query.ParsePage(ioutil.QueryParams["page"], ioutil.QueryParams["recordsPerPage"])

	result, err := h.books.List(ctx, page)
	if err != nil {
		return nil, serviceErrors(h.logger.WithContext(ctx), "list books", err)
	}

	setTotal(ioutil, result.Total)
	return dto.NewBookDTOs(result.Books), nil
}

func (h *BookHandler) GetBookService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) (dto.BookWithAuthorsDTO, *error_handler.ErrorCollection) {
	id, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return dto.BookWithAuthorsDTO{}, errs
	}

	book, err := h.books.Get(ctx, id)
	if err != nil {
		return dto.BookWithAuthorsDTO{}, serviceErrors(h.logger.WithContext(ctx), "get book", err)
	}

	return dto.NewBookWithAuthorsDTO(book), nil
}

func (h *BookHandler) CreateBookService(
	ctx context.Context,
	ioutil *handler.RequestIo[service.BookInput],
) (dto.BookDTO, *error_handler.ErrorCollection) {
	book, err := h.books.Create(ctx, ioutil.Body)
	if err != nil {
		return dto.BookDTO{}, serviceErrors(h.logger.WithContext(ctx), "create book", err)
	}

	ioutil.SetStatus(http.StatusCreated)
	ioutil.SetHeader("Location", hateoas.BaseURL(ioutil.Request)+BooksPath+"/"+strconv.FormatInt(book.ID, 10))
	return dto.NewBookDTO(book), nil
}

func (h *BookHandler) UpdateBookService(
	ctx context.Context,
	ioutil *handler.RequestIo[service.BookInput],
) (struct{}, *error_handler.ErrorCollection) {
	id, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return struct{}{}, errs
	}

	if err := h.books.Update(ctx, id, ioutil.Body); err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "update book", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}

func (h *BookHandler) DeleteBookService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) (struct{}, *error_handler.ErrorCollection) {
	id, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return struct{}{}, errs
	}

	if err := h.books.Delete(ctx, id); err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "delete book", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}
