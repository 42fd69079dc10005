// Package apperror defines the error kinds shared by the adapters, the
// services and the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrConversionFailed  = errors.New("conversion failed")
	ErrUnavailable       = errors.New("unavailable")
	ErrTooLarge          = errors.New("too large")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// InvalidParameters reports a missing or out-of-range input.
func InvalidParameters(format string, args ...any) error {
	return &Error{Kind: ErrInvalidParameters, Msg: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a missing or rejected identity.
func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Msg: msg}
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Msg: msg}
}

// ConversionFailed wraps an underlying library failure. The message is
// prefix followed by the cause's message.
func ConversionFailed(cause error, prefix string) error {
	msg := prefix
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", prefix, cause.Error())
	}
	return &Error{Kind: ErrConversionFailed, Msg: msg, Cause: cause}
}

// TooLarge reports an upload over the configured size limit.
func TooLarge(msg string) error {
	return &Error{Kind: ErrTooLarge, Msg: msg}
}

// Unavailable reports an unreachable backing service.
func Unavailable(cause error) error {
	return &Error{Kind: ErrUnavailable, Msg: "service unavailable", Cause: cause}
}

// Wrap keeps typed errors as they are and turns anything else into a
// conversion failure with the given prefix.
func Wrap(err error, prefix string) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return ConversionFailed(err, prefix)
}

// Status maps an error to the HTTP status the API answers with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidParameters):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
