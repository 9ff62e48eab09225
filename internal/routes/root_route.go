package routes

import (
	"net/http"

	"libraryapi/commons/routes"
	"libraryapi/internal/dto"
	"libraryapi/internal/handler"
	"libraryapi/internal/hateoas"

	"github.com/gin-gonic/gin"
)

func InitRootRoutes(
	router *gin.Engine,
	rootHandler *handler.RootHandler,
	deps routes.RouteDependencies,
) {
	apiV1 := routes.CreateAPIGroup(router, "v1")

	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.EmptyRequest, []hateoas.Link]{
			Path:        "",
			Method:      http.MethodGet,
			ServiceFunc: rootHandler.RootService,
		},
	)
}
