package handler

import (
	"net/http"

	"libraryapi/internal/auth"
	"libraryapi/internal/logger"

	"github.com/gin-gonic/gin"
)

type RequestIo[T any] struct {
	Body        T
	RawBody     []byte
	PathParams  map[string]string
	QueryParams map[string]string
	Headers     map[string]string
	Identity    auth.Identity
	Request     *http.Request

	status          int
	responseHeaders http.Header
}

// SetStatus overrides the success status code (200 by default).
func (io *RequestIo[T]) SetStatus(code int) {
	io.status = code
}

func (io *RequestIo[T]) Status() int {
	if io.status == 0 {
		return http.StatusOK
	}
	return io.status
}

// SetHeader queues a response header written before the body.
func (io *RequestIo[T]) SetHeader(key, value string) {
	io.responseHeaders.Set(key, value)
}

func (io *RequestIo[T]) ResponseHeaders() http.Header {
	return io.responseHeaders
}

type HandlerDependencies struct {
	Logger logger.Logger
}

func BuildRequestIo[T any](c *gin.Context) *RequestIo[T] {
	return &RequestIo[T]{
		PathParams:      extractPathParams(c),
		QueryParams:     extractQueryParams(c),
		Headers:         extractHeaders(c),
		Identity:        auth.FromContext(c.Request.Context()),
		Request:         c.Request,
		responseHeaders: make(http.Header),
	}
}

func extractPathParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for _, param := range c.Params {
		params[param.Key] = param.Value
	}
	return params
}

func extractQueryParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

func extractHeaders(c *gin.Context) map[string]string {
	headers := make(map[string]string)
	for key, values := range c.Request.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}
	return headers
}
