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
	"libraryapi/internal/service"
)

const AuthorsCollectionPath = "/api/v2/authors-collection"

type AuthorCollectionHandler struct {
	logger  logger.Logger
	authors *service.AuthorService
}

func NewAuthorCollectionHandler(log logger.Logger, authors *service.AuthorService) *AuthorCollectionHandler {
	return &AuthorCollectionHandler{
		logger:  log.With(logger.String("component", "author_collection_handler")),
		authors: authors,
	}
}

// parseIDList reads a comma separated id list, skipping pieces that are not ids.
func parseIDList(raw string) []int64 {
	var ids []int64
	for _, piece := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(piece), 10, 64)
		if err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func (h *AuthorCollectionHandler) GetAuthorsService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) ([]dto.AuthorDTO, *error_handler.ErrorCollection) {
	ids := parseIDList(ioutil.PathParams["ids"])
	if len(ids) == 0 {
		return nil, error_handler.Single(error_handler.CodeValidationError, "No ids were sent")
	}

	authors, err := h.authors.GetMany(ctx, ids)
	if err != nil {
		return nil, serviceErrors(h.logger.WithContext(ctx), "get authors", err)
	}

	return dto.NewAuthorDTOs(authors), nil
}

func (h *AuthorCollectionHandler) CreateAuthorsService(
	ctx context.Context,
	ioutil *handler.RequestIo[[]service.AuthorInput],
) ([]dto.AuthorDTO, *error_handler.ErrorCollection) {
	if len(ioutil.Body) == 0 {
		return nil, error_handler.Single(error_handler.CodeValidationError, "At least one author is required")
	}

	authors, err := h.authors.CreateBatch(ctx, ioutil.Body)
	if err != nil {
		return nil, serviceErrors(h.logger.WithContext(ctx), "create authors", err)
	}

	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	ioutil.SetStatus(http.StatusCreated)
	ioutil.SetHeader("Location", hateoas.BaseURL(ioutil.Request)+AuthorsCollectionPath+"/"+joinIDs(ids))
	return dto.NewAuthorDTOs(authors), nil
}
