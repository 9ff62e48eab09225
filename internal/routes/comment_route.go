package routes

import (
	"net/http"

	"libraryapi/commons/routes"
	"libraryapi/internal/cache/invalidation"
	"libraryapi/internal/dto"
	"libraryapi/internal/handler"
	"libraryapi/internal/service"

	"github.com/gin-gonic/gin"
)

func InitCommentRoutes(
	router *gin.Engine,
	commentHandler *handler.CommentHandler,
	deps routes.RouteDependencies,
) {
	comments := routes.CreateAPIGroup(router, "v1").Group("/books/:id/comments")

	routes.RegisterRoute(
		comments,
		deps,
		routes.RouteOptions[dto.EmptyRequest, []dto.CommentDTO]{
			Path:        "",
			Method:      http.MethodGet,
			ServiceFunc: commentHandler.ListCommentsService,
			CacheTag:    invalidation.TagComments,
		},
	)

	routes.RegisterRoute(
		comments,
		deps,
		routes.RouteOptions[dto.EmptyRequest, dto.CommentDTO]{
			Path:        "/:commentId",
			Method:      http.MethodGet,
			ServiceFunc: commentHandler.GetCommentService,
			CacheTag:    invalidation.TagComments,
		},
	)

	routes.RegisterRoute(
		comments,
		deps,
		routes.RouteOptions[service.CommentInput, dto.CommentDTO]{
			Path:        "",
			Method:      http.MethodPost,
			ServiceFunc: commentHandler.CreateCommentService,
			RequireAuth: true,
		},
	)

	routes.RegisterRoute(
		comments,
		deps,
		routes.RouteOptions[dto.PatchRequest, struct{}]{
			Path:        "/:commentId",
			Method:      http.MethodPatch,
			ServiceFunc: commentHandler.PatchCommentService,
			RequireAuth: true,
		},
	)

	routes.RegisterRoute(
		comments,
		deps,
		routes.RouteOptions[dto.EmptyRequest, struct{}]{
			Path:        "/:commentId",
			Method:      http.MethodDelete,
			ServiceFunc: commentHandler.DeleteCommentService,
			RequireAuth: true,
		},
	)
}
