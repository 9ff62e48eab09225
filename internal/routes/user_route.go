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

func InitUserRoutes(
	router *gin.Engine,
	userHandler *handler.UserHandler,
	deps routes.RouteDependencies,
) {
	users := routes.CreateAPIGroup(router, "v1").Group("/users")

	routes.RegisterRoute(
		users,
		deps,
		routes.RouteOptions[service.Credentials, auth.Token]{
			Path:        "/register",
			Method:      http.MethodPost,
			ServiceFunc: userHandler.RegisterService,
		},
	)

	routes.RegisterRoute(
		users,
		deps,
		routes.RouteOptions[service.Credentials, auth.Token]{
			Path:        "/login",
			Method:      http.MethodPost,
			ServiceFunc: userHandler.LoginService,
		},
	)

	routes.RegisterRoute(
		users,
		deps,
		routes.RouteOptions[dto.EmptyRequest, []dto.UserDTO]{
			Path:        "",
			Method:      http.MethodGet,
			ServiceFunc: userHandler.ListUsersService,
			Policy:      auth.PolicyAdmin,
		},
	)

	routes.RegisterRoute(
		users,
		deps,
		routes.RouteOptions[service.UserUpdate, struct{}]{
			Path:        "",
			Method:      http.MethodPut,
			ServiceFunc: userHandler.UpdateUserService,
			RequireAuth: true,
		},
	)

	routes.RegisterRoute(
		users,
		deps,
		routes.RouteOptions[dto.EmptyRequest, auth.Token]{
			Path:        "/renew-token",
			Method:      http.MethodGet,
			ServiceFunc: userHandler.RenewTokenService,
			RequireAuth: true,
		},
	)

	routes.RegisterRoute(
		users,
		deps,
		routes.RouteOptions[dto.EditClaimRequest, struct{}]{
			Path:        "/add-admin",
			Method:      http.MethodPost,
			ServiceFunc: userHandler.AddAdminService,
			Policy:      auth.PolicyAdmin,
		},
	)

	routes.RegisterRoute(
		users,
		deps,
		routes.RouteOptions[dto.EditClaimRequest, struct{}]{
			Path:        "/remove-admin",
			Method:      http.MethodPost,
			ServiceFunc: userHandler.RemoveAdminService,
			Policy:      auth.PolicyAdmin,
		},
	)
}
