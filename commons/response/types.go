package response

// StandardResponse is the envelope every JSON response is wrapped in.
type StandardResponse struct {
	Status    StatusEnum `json:"status"`
	ErrorCode int        `json:"errorCode"`
	Message   string     `json:"message"`
	Data      any        `json:"data"`
	Errors    []Errors   `json:"errors"`
}

type StatusEnum string

const (
	StatusSuccess StatusEnum = "SUCCESS"
	StatusFailed  StatusEnum = "FAILED"
)

type Errors struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
}

// Success wraps data in a successful envelope.
func Success(data any) StandardResponse {
	return StandardResponse{
		Status:    StatusSuccess,
		ErrorCode: 0,
		Message:   "Success",
		Data:      data,
		Errors:    []Errors{},
	}
}

// Failure wraps a single error in a failed envelope.
func Failure(code int, message string) StandardResponse {
	return StandardResponse{
		Status:    StatusFailed,
		ErrorCode: code,
		Message:   message,
		Data:      nil,
		Errors: []Errors{
			{ErrorCode: code, Message: message},
		},
	}
}
