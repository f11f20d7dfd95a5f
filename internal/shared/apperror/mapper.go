package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the transport-facing shape of an error. Handlers pass it to
// the response envelope unchanged.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

// ToHTTP maps any error to its HTTP representation. Unknown errors are masked
// as a generic 500 so internals never leak to clients.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred",
	}
}
