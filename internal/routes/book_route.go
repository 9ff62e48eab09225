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

func InitBookRoutes(
	router *gin.Engine,
	bookHandler *handler.BookHandler,
	deps routes.RouteDependencies,
) {
	books := routes.CreateAPIGroup(router, "v1").Group("/books")

	routes.RegisterRoute(
		books,
		deps,
		routes.RouteOptions[dto.EmptyRequest, []dto.BookDTO]{
			Path:        "",
			Method:      http.MethodGet,
			ServiceFunc: bookHandler.ListBooksService,
			CacheTag:    invalidation.TagBooks,
		},
	)

	routes.RegisterRoute(
		books,
		deps,
		routes.RouteOptions[dto.EmptyRequest, dto.BookWithAuthorsDTO]{
			Path:        "/:id",
			Method:      http.MethodGet,
			ServiceFunc: bookHandler.GetBookService,
			CacheTag:    invalidation.TagBooks,
		},
	)

	routes.RegisterRoute(
		books,
		deps,
		routes.RouteOptions[service.BookInput, dto.BookDTO]{
			Path:        "",
			Method:      http.MethodPost,
			ServiceFunc: bookHandler.CreateBookService,
			Policy:      auth.PolicyAdmin,
		},
	)

	routes.RegisterRoute(
		books,
		deps,
		routes.RouteOptions[service.BookInput, struct{}]{
			Path:        "/:id",
			Method:      http.MethodPut,
			ServiceFunc: bookHandler.UpdateBookService,
			Policy:      auth.PolicyAdmin,
		},
	)

	routes.RegisterRoute(
		books,
		deps,
		routes.RouteOptions[dto.EmptyRequest, struct{}]{
			Path:        "/:id",
			Method:      http.MethodDelete,
			ServiceFunc: bookHandler.DeleteBookService,
			Policy:      auth.PolicyAdmin,
		},
	)
}
