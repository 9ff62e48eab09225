package handler

import (
	"context"
	"net/http"

	"libraryapi/commons/error_handler"
	"libraryapi/commons/handler"
	"libraryapi/internal/auth"
	"libraryapi/internal/dto"
	"libraryapi/internal/hateoas"
	"libraryapi/internal/logger"
)

type rootLink struct {
	path        string
	description string
	method      string
}

var (
	publicLinks = []rootLink{
		{"/api/v1", "self", http.MethodGet},
		{AuthorsPath, "authors-get", http.MethodGet},
		{BooksPath, "books-get", http.MethodGet},
		{BooksPath + "/{bookId}/comments", "comments-get", http.MethodGet},
		{BooksPath + "/{bookId}/comments/{id}", "comment-retrieve", http.MethodGet},
		{BooksPath + "/{bookId}/comments", "comment-create", http.MethodPost},
		{BooksPath + "/{bookId}/comments/{id}", "comment-patch", http.MethodPatch},
		{BooksPath + "/{bookId}/comments/{id}", "comment-delete", http.MethodDelete},
		{"/api/v1/users/register", "users-register", http.MethodPost},
		{"/api/v1/users/login", "users-login", http.MethodPost},
	}

	userLinks = []rootLink{
		{"/api/v1/users", "users-update", http.MethodPut},
		{"/api/v1/users/renew-token", "users-renew-token", http.MethodGet},
	}

	adminLinks = []rootLink{
		{AuthorsPath, "author-create", http.MethodPost},
		{AuthorsCollectionPath, "authors-create", http.MethodPost},
		{BooksPath, "book-create", http.MethodPost},
		{"/api/v1/users", "users-get", http.MethodGet},
		{"/api/v1/users/add-admin", "users-add-admin", http.MethodPost},
		{"/api/v1/users/remove-admin", "users-remove-admin", http.MethodPost},
	}
)

// RootHandler advertises the API entry points available to the caller.
type RootHandler struct {
	logger    logger.Logger
	generator *hateoas.Generator
}

func NewRootHandler(log logger.Logger, generator *hateoas.Generator) *RootHandler {
	return &RootHandler{
		logger:    log.With(logger.String("component", "root_handler")),
		generator: generator,
	}
}

func (h *RootHandler) RootService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) ([]hateoas.Link, *error_handler.ErrorCollection) {
	r := ioutil.Request

	groups := [][]rootLink{publicLinks}
	if ioutil.Identity.Authenticated {
		groups = append(groups, userLinks)
	}
	if h.generator.Allowed(r, auth.PolicyAdmin) {
		groups = append(groups, adminLinks)
	}

	var links []hateoas.Link
	for _, group := range groups {
		for _, l := range group {
			links = append(links, h.generator.Link(r, l.path, l.description, l.method))
		}
	}
	return links, nil
}
