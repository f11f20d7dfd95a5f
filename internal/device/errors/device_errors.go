package deviceerrors

import (
	"net/http"

	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"
)

var (
	ErrDeviceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Device not found",
		http.StatusNotFound,
	)
	ErrInvalidAPIKey = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid API key",
		http.StatusUnauthorized,
	)
)
