package routes

import (
	"net/http"

	"libraryapi/commons/routes"
	"libraryapi/internal/dto"
	"libraryapi/internal/handler"

	"github.com/gin-gonic/gin"
)

func InitHealthRoutes(
	router *gin.Engine,
	healthHandler *handler.HealthHandler,
	deps routes.RouteDependencies,
) {
	apiV1 := routes.CreateAPIGroup(router, "v1")

	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.EmptyRequest, dto.HealthResponse]{
			Path:        "/health",
			Method:      http.MethodGet,
			ServiceFunc: healthHandler.HealthService,
		},
	)
}
