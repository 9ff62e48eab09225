package auth

import (
	"strings"

	"libraryapi/internal/logger"

	"github.com/gin-gonic/gin"
)

// TokenErrorKey is the gin context key holding a rejected bearer token error.
const TokenErrorKey = "auth.token_error"

// Authenticate attaches the bearer token identity to the request, if any.
// A missing or invalid token leaves the request anonymous; routes that require
// authentication reject it later.
func Authenticate(issuer *TokenIssuer, log logger.Logger) gin.HandlerFunc {
	log = log.With(logger.String("component", "auth_middleware"))

	return func(c *gin.Context) {
		id := Anonymous()

		header := c.GetHeader("Authorization")
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok && raw != "" {
			parsed, err := issuer.Parse(strings.TrimSpace(raw))
			if err != nil {
				log.Debug("rejected bearer token",
					logger.String("path", c.Request.URL.Path),
					logger.Error(err))
				c.Set(TokenErrorKey, err)
			} else {
				id = parsed
			}
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
