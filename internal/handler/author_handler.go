package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"libraryapi/commons/error_handler"
	"libraryapi/commons/handler"
	"libraryapi/internal/dto"
	"libraryapi/internal/hateoas"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"
	"libraryapi/internal/service"
)

// AuthorsPath is where single authors are served.
const AuthorsPath = "/api/v1/authors"

type AuthorHandler struct {
	logger  logger.Logger
	authors *service.AuthorService
}

func NewAuthorHandler(log logger.Logger, authors *service.AuthorService) *AuthorHandler {
	return &AuthorHandler{
		logger:  log.With(logger.String("component", "author_handler")),
		authors: authors,
	}
}

func setTotal(ioutil interface{ SetHeader(string, string) }, total int64) {
	ioutil.SetHeader(query.TotalRecordsHeader, strconv.FormatInt(total, 10))
}

func (h *AuthorHandler) ListAuthorsService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) ([]dto.AuthorDTO, *error_handler.ErrorCollection) {
	page := query.ParsePage(ioutil.QueryParams["page"], ioutil.QueryParams["recordsPerPage"])

	result, err := h.authors.List(ctx, page)
	if err != nil {
		return nil, serviceErrors(h.logger.WithContext(ctx), "list authors", err)
	}

	setTotal(ioutil, result.Total)
	return dto.NewAuthorDTOs(result.Authors), nil
}

// FilterAuthorsService searches authors by the query-string criteria.
func (h *AuthorHandler) FilterAuthorsService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) ([]dto.AuthorWithBooksDTO, *error_handler.ErrorCollection) {
	criteria := query.ParseAuthorCriteria(ioutil.QueryParams)

	result, err := h.authors.Search(ctx, criteria)
	if err != nil {
		return nil, serviceErrors(h.logger.WithContext(ctx), "filter authors", err)
	}

	setTotal(ioutil, result.Total)
	return dto.NewAuthorWithBooksDTOs(result.Authors), nil
}

func (h *AuthorHandler) GetAuthorService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) (dto.AuthorWithBooksDTO, *error_handler.ErrorCollection) {
	id, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return dto.AuthorWithBooksDTO{}, errs
	}

	author, err := h.authors.Get(ctx, id)
	if err != nil {
		return dto.AuthorWithBooksDTO{}, serviceErrors(h.logger.WithContext(ctx), "get author", err)
	}

	out := dto.NewAuthorWithBooksDTO(author)
	if out.Books == nil {
		out.Books = []dto.BookSummaryDTO{}
	}
	return out, nil
}

func (h *AuthorHandler) CreateAuthorService(
	ctx context.Context,
	ioutil *handler.RequestIo[service.AuthorInput],
) (dto.AuthorDTO, *error_handler.ErrorCollection) {
	author, err := h.authors.Create(ctx, ioutil.Body)
	if err != nil {
		return dto.AuthorDTO{}, serviceErrors(h.logger.WithContext(ctx), "create author", err)
	}

	out := dto.NewAuthorDTO(author)
	ioutil.SetStatus(http.StatusCreated)
	// Location follows the API version that served the request.
	collection := strings.TrimSuffix(ioutil.Request.URL.Path, "/")
	ioutil.SetHeader("Location", hateoas.BaseURL(ioutil.Request)+collection+"/"+out.ResourceID())
	return out, nil
}

func (h *AuthorHandler) UpdateAuthorService(
	ctx context.Context,
	ioutil *handler.RequestIo[service.AuthorInput],
) (struct{}, *error_handler.ErrorCollection) {
	id, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return struct{}{}, errs
	}

	if err := h.authors.Update(ctx, id, ioutil.Body); err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "update author", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}

func (h *AuthorHandler) PatchAuthorService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.PatchRequest],
) (struct{}, *error_handler.ErrorCollection) {
	id, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return struct{}{}, errs
	}

	if err := h.authors.Patch(ctx, id, ioutil.RawBody); err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "patch author", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}

func (h *AuthorHandler) DeleteAuthorService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) (struct{}, *error_handler.ErrorCollection) {
	id, errs := pathID(ioutil.PathParams, "id")
	if errs != nil {
		return struct{}{}, errs
	}

	if err := h.authors.Delete(ctx, id); err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "delete author", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}
