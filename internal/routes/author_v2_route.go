package routes

import (
	"net/http"

	"libraryapi/commons/routes"
	"libraryapi/internal/auth"
	"libraryapi/internal/cache/invalidation"
	"libraryapi/internal/dto"
	"libraryapi/internal/handler"
	"libraryapi/internal/service"

	"github.com/gin-gonic/gin"
)

// InitAuthorV2Routes serves the author resource under /api/v2 as plain
// envelopes without hypermedia links.
func InitAuthorV2Routes(
	router *gin.Engine,
	authorHandler *handler.AuthorHandler,
	deps routes.RouteDependencies,
) {
	authors := routes.CreateAPIGroup(router, "v2").Group("/authors")

	routes.RegisterRoute(
		authors,
		deps,
		routes.RouteOptions[dto.EmptyRequest, []dto.AuthorDTO]{
			Path:        "",
			Method:      http.MethodGet,
			ServiceFunc: authorHandler.ListAuthorsService,
			CacheTag:    invalidation.TagAuthors,
		},
	)

	routes.RegisterRoute(
		authors,
		deps,
		routes.RouteOptions[dto.EmptyRequest, []dto.AuthorWithBooksDTO]{
			Path:        "/filter",
			Method:      http.MethodGet,
			ServiceFunc: authorHandler.FilterAuthorsService,
		},
	)

	routes.RegisterRoute(
		authors,
		deps,
		routes.RouteOptions[dto.EmptyRequest, dto.AuthorWithBooksDTO]{
			Path:        "/:id",
			Method:      http.MethodGet,
			ServiceFunc: authorHandler.GetAuthorService,
			CacheTag:    invalidation.TagAuthors,
		},
	)

	routes.RegisterRoute(
		authors,
		deps,
		routes.RouteOptions[service.AuthorInput, dto.AuthorDTO]{
			Path:        "",
			Method:      http.MethodPost,
			ServiceFunc: authorHandler.CreateAuthorService,
			Policy:      auth.PolicyAdmin,
		},
	)

	routes.RegisterRoute(
		authors,
		deps,
		routes.RouteOptions[service.AuthorInput, struct{}]{
			Path:        "/:id",
			Method:      http.MethodPut,
			ServiceFunc: authorHandler.UpdateAuthorService,
			Policy:      auth.PolicyAdmin,
		},
	)

	routes.RegisterRoute(
		authors,
		deps,
		routes.RouteOptions[dto.PatchRequest, struct{}]{
			Path:        "/:id",
			Method:      http.MethodPatch,
			ServiceFunc: authorHandler.PatchAuthorService,
			Policy:      auth.PolicyAdmin,
		},
	)

	routes.RegisterRoute(
		authors,
		deps,
		routes.RouteOptions[dto.EmptyRequest, struct{}]{
			Path:        "/:id",
			Method:      http.MethodDelete,
			ServiceFunc: authorHandler.DeleteAuthorService,
			Policy:      auth.PolicyAdmin,
		},
	)
}
