package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"libraryapi/commons/error_handler"
	"libraryapi/commons/response"
	"libraryapi/internal/logger"
	"libraryapi/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ServiceFunc[InputDto any, OutputDto any] func(
	ctx context.Context,
	ioutil *RequestIo[InputDto],
) (OutputDto, *error_handler.ErrorCollection)

// ResponseDecorator may replace a successful payload before it is enveloped.
type ResponseDecorator func(r *http.Request, status int, data any) any

func HandleFunc[InputDto any, OutputDto any](
	deps HandlerDependencies,
	serviceFunc ServiceFunc[InputDto, OutputDto],
	decorator ResponseDecorator,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		ioutil := BuildRequestIo[InputDto](c)

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			deps.Logger.Error("unable to read request body", logger.Error(err))
			SendErrorResponse(c, nil, error_handler.NewErrorCollection().
				AddError(error_handler.CodeInternalServerError, "Unable to parse request body", nil))
			return
		}

		ioutil.RawBody = bodyBytes

		if hasBody(c.Request.Method) {
			if err := bindBody(c, bodyBytes, &ioutil.Body); err != nil {
				deps.Logger.WithContext(ctx).Debug("unable to bind request body",
					logger.Error(err),
					logger.String("path", c.Request.URL.Path))
				errs := error_handler.NewErrorCollection()
				for _, msg := range validation.Messages(err) {
					errs.AddError(error_handler.CodeValidationError, msg, nil)
				}
				SendErrorResponse(c, nil, errs)
				return
			}
		}

		outputDto, errorCollection := serviceFunc(ctx, ioutil)

		for key, values := range ioutil.ResponseHeaders() {
			for _, v := range values {
				c.Writer.Header().Add(key, v)
			}
		}

		if errorCollection.HasErrors() {
			SendErrorResponse(c, nil, errorCollection)
			return
		}

		status := ioutil.Status()
		if status == http.StatusNoContent {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}

		var data any = outputDto
		if decorator != nil {
			data = decorator(c.Request, status, data)
		}

		SendSuccessResponse(c, status, data)
	}
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// bindBody decodes and validates a JSON body. An empty body is still validated
// so required fields are reported.
func bindBody(c *gin.Context, body []byte, target any) error {
	if len(body) == 0 {
		return binding.Validator.ValidateStruct(target)
	}

	// Restore the body for ShouldBindJSON to read
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return c.ShouldBindJSON(target)
}

func SendSuccessResponse(c *gin.Context, status int, data any) {
	c.JSON(status, response.Success(data))
}

func SendErrorResponse(c *gin.Context, data any, errorCollection *error_handler.ErrorCollection) {
	status := response.StatusFailed
	httpStatus := errorCollection.GetHTTPStatus()
	errors := errorCollection.GetErrors()

	var primaryErrorCode int
	var primaryMessage string

	if len(errors) > 0 {
		primaryErrorCode = errors[0].ErrorCode
		primaryMessage = errors[0].Message
	} else {
		primaryErrorCode = error_handler.CodeInternalServerError
		primaryMessage = "Internal server error"
	}

	standardResponse := response.StandardResponse{
		Status:    status,
		ErrorCode: primaryErrorCode,
		Message:   primaryMessage,
		Data:      data,
		Errors:    errors,
	}

	c.JSON(httpStatus, standardResponse)
}
