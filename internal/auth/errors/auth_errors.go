package autherrors

import (
	"net/http"

	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"
)

var (
	// Wrong username and wrong password are indistinguishable on purpose.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid username or password",
		http.StatusUnauthorized,
	)

	ErrAccountDisabled = apperror.New(
		apperror.CodeForbidden,
		"Account is disabled",
		http.StatusForbidden,
	)
)
