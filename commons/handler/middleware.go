package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"libraryapi/commons/error_handler"
	"libraryapi/commons/response"
	"libraryapi/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// ErrorRecorder persists unhandled failures for later inspection.
type ErrorRecorder interface {
	RecordError(ctx context.Context, message, stackTrace string) error
}

// ErrorHandlingMiddleware turns panics into a 500 envelope. When recorder is
// non-nil the failure is persisted first; a persistence error is only logged.
func ErrorHandlingMiddleware(log logger.Logger, recorder ErrorRecorder) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if recovered == nil {
			return
		}

		ctx := c.Request.Context()
		message := fmt.Sprint(recovered)
		stack := string(debug.Stack())

		log.WithContext(ctx).Error("panic recovered in middleware",
			logger.String("path", c.Request.URL.Path),
			logger.String("method", c.Request.Method),
			logger.Any("panic", recovered))

		if recorder != nil {
			if err := recorder.RecordError(context.WithoutCancel(ctx), message, stack); err != nil {
				log.Warn("failed to record unhandled error", logger.Error(err))
			}
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, response.StandardResponse{
			Status:    response.StatusFailed,
			ErrorCode: error_handler.CodeInternalServerError,
			Message:   "An unexpected error has occurred",
			Data:      nil,
			Errors: []response.Errors{
				error_handler.GetInternalServerError("An unexpected error has occurred"),
			},
		})
	})
}

// RequestIDMiddleware reuses an incoming X-Request-ID or generates one, and
// makes it available to context-aware loggers.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// LoggingMiddleware logs each request with its execution time.
func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.WithContext(c.Request.Context())

		reqLog.Info("request started",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.String("user_agent", c.GetHeader("User-Agent")),
			logger.String("remote_addr", c.ClientIP()))

		c.Next()

		reqLog.Info("request completed",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status_code", c.Writer.Status()),
			logger.Duration("elapsed", time.Since(start)))
	}
}

// CORSMiddleware allows the configured origins and exposes the given response headers.
func CORSMiddleware(allowedOrigins []string, exposeHeaders ...string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "IncludeHATEOAS", RequestIDHeader},
		ExposeHeaders: append([]string{RequestIDHeader}, exposeHeaders...),
		MaxAge:        12 * time.Hour,
	}

	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}

	return cors.New(cfg)
}

// HeaderMiddleware appends a fixed header to every response.
func HeaderMiddleware(name, value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(name, value)
		c.Next()
	}
}

func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		standardResponse := response.StandardResponse{
			Status:    response.StatusFailed,
			ErrorCode: error_handler.CodeNotFound,
			Message:   "Route not found",
			Data:      nil,
			Errors: []response.Errors{
				{
					ErrorCode: error_handler.CodeNotFound,
					Message:   fmt.Sprintf("The requested route '%s %s' was not found", c.Request.Method, c.Request.URL.Path),
					Data:      nil,
				},
			},
		}

		c.JSON(http.StatusNotFound, standardResponse)
	}
}

func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		standardResponse := response.StandardResponse{
			Status:    response.StatusFailed,
			ErrorCode: http.StatusMethodNotAllowed,
			Message:   "Method not allowed",
			Data:      nil,
			Errors: []response.Errors{
				{
					ErrorCode: http.StatusMethodNotAllowed,
					Message:   fmt.Sprintf("Method '%s' is not allowed for route '%s'", c.Request.Method, c.Request.URL.Path),
					Data:      nil,
				},
			},
		}

		c.JSON(http.StatusMethodNotAllowed, standardResponse)
	}
}
