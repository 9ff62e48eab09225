package handler

import (
	"libraryapi/commons/error_handler"
	"libraryapi/internal/auth"
	"libraryapi/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequireAuthMiddleware rejects anonymous callers with 401.
func RequireAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.FromContext(c.Request.Context()).Authenticated {
			c.Next()
			return
		}

		message := "Authentication is required"
		if _, rejected := c.Get(auth.TokenErrorKey); rejected {
			message = "Invalid or expired token"
		}

		SendErrorResponse(c, nil, error_handler.Single(error_handler.CodeUnauthorized, message))
		c.Abort()
	}
}

// PolicyMiddleware requires the caller to satisfy policy. Anonymous callers get
// 401, authenticated ones that fail the policy get 403.
func PolicyMiddleware(authz auth.Authorizer, policy string, log logger.Logger) gin.HandlerFunc {
	requireAuth := RequireAuthMiddleware()

	return func(c *gin.Context) {
		id := auth.FromContext(c.Request.Context())
		if !id.Authenticated {
			requireAuth(c)
			return
		}

		if !authz.Evaluate(id, policy) {
			log.WithContext(c.Request.Context()).Info("policy denied request",
				logger.String("policy", policy),
				logger.String("user_id", id.UserID),
				logger.String("path", c.Request.URL.Path))
			SendErrorResponse(c, nil, error_handler.Single(error_handler.CodeForbidden, "Forbidden"))
			c.Abort()
			return
		}

		c.Next()
	}
}
