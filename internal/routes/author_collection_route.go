package routes

import (
	"net/http"

	"libraryapi/commons/routes"
	"libraryapi/internal/auth"
	"libraryapi/internal/dto"
	"libraryapi/internal/handler"
	"libraryapi/internal/service"

	"github.com/gin-gonic/gin"
)

func InitAuthorCollectionRoutes(
	router *gin.Engine,
	collectionHandler *handler.AuthorCollectionHandler,
	deps routes.RouteDependencies,
) {
	collection := routes.CreateAPIGroup(router, "v2").Group("/authors-collection")

	routes.RegisterRoute(
		collection,
		deps,
		routes.RouteOptions[dto.EmptyRequest, []dto.AuthorDTO]{
			Path:        "/:ids",
			Method:      http.MethodGet,
			ServiceFunc: collectionHandler.GetAuthorsService,
			Policy:      auth.PolicyAdmin,
		},
	)

	routes.RegisterRoute(
		collection,
		deps,
		routes.RouteOptions[[]service.AuthorInput, []dto.AuthorDTO]{
			Path:        "",
			Method:      http.MethodPost,
			ServiceFunc: collectionHandler.CreateAuthorsService,
			Policy:      auth.PolicyAdmin,
		},
	)
}
