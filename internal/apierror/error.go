package apierror

import (
	"errors"
	"net/http"

	"github.com/leshachaplin/convgate/internal/domain"
)

type HTTPPart struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Error struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	HTTP    HTTPPart               `json:"http"`
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) StatusCode() int {
	return e.HTTP.Code
}

func NewAPIError(msg string, status int) Error {
	return Error{
		Message: msg,
		HTTP: HTTPPart{
			Code:    status,
			Message: http.StatusText(status),
		},
	}
}

// FromError maps the failure taxonomy onto transport errors. An unmapped key
// is the caller's mistake; a sink failure is the upstream's; everything else
// (missing credentials included) is ours.
func FromError(err error) Error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, domain.ErrUnmappedEventKey):
		return NewAPIError(err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrSink):
		return NewAPIError(err.Error(), http.StatusBadGateway)
	default:
		return NewAPIError(err.Error(), http.StatusInternalServerError)
	}
}
