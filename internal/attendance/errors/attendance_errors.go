package attendanceerrors

import (
	"net/http"

	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"
)

var (
	// Badge not bound to any active employee. Terminal, no retry.
	ErrUnknownBadge = apperror.New(
		apperror.CodeNotFound,
		"Card not registered",
		http.StatusNotFound,
	)

	// Device exceeded its sliding-window ceiling. Transient.
	ErrRateLimited = apperror.New(
		apperror.CodeRateLimited,
		"Rate limit exceeded",
		http.StatusTooManyRequests,
	)

	// Duplicate tap suppressed; the original tap already registered.
	ErrCooldown = apperror.New(
		apperror.CodeTapCooldown,
		"Duplicate tap ignored",
		http.StatusTooManyRequests,
	)

	// The session store failed; the tap must surface as failed rather than
	// guess an outcome.
	ErrStoreUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Attendance store unavailable",
		http.StatusServiceUnavailable,
	)

	// An optimistic close lost the race: the session was already closed by
	// another in-flight tap. Retried once internally before surfacing.
	ErrConcurrentConflict = apperror.New(
		apperror.CodeConflict,
		"Session was updated by another tap",
		http.StatusConflict,
	)

	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance session not found",
		http.StatusNotFound,
	)
)
