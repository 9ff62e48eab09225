package routes

import (
	"net/http"

	"libraryapi/commons/routes"
	"libraryapi/internal/auth"
	"libraryapi/internal/cache/invalidation"
	"libraryapi/internal/dto"
	"libraryapi/internal/handler"
	"libraryapi/internal/hateoas"
	"libraryapi/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthorLinks locates authors for link synthesis.
var AuthorLinks = hateoas.ResourceLinks{
	Name:            "author",
	ItemRoute:       handler.AuthorsPath + "/:id",
	CollectionRoute: handler.AuthorsPath,
	Policy:          auth.PolicyAdmin,
}

func InitAuthorRoutes(
	router *gin.Engine,
	authorHandler *handler.AuthorHandler,
	generator *hateoas.Generator,
	deps routes.RouteDependencies,
) {
	authors := routes.CreateAPIGroup(router, "v1").Group("/authors")

	routes.RegisterRoute(
		authors,
		deps,
		routes.RouteOptions[dto.EmptyRequest, []dto.AuthorDTO]{
			Path:        "",
			Method:      http.MethodGet,
			ServiceFunc: authorHandler.ListAuthorsService,
			CacheTag:    invalidation.TagAuthors,
			Decorator:   hateoas.CollectionDecorator[dto.AuthorDTO](generator, AuthorLinks),
			Headers: map[string]string{
				"controllers": "authors",
				"actions":     "obtain-authors",
			},
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
			Decorator:   hateoas.ItemDecorator[dto.AuthorWithBooksDTO](generator, AuthorLinks),
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
