// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error. The handler layer maps every kind
// onto an HTTP status; no other layer touches status codes.
type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindNotFound
	KindMethodNotAllowed
	KindConflict
	KindStoreUnavailable
	KindInternal
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code mirrored into the response envelope.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func MethodNotAllowed(message string) *AppError {
	return &AppError{Kind: KindMethodNotAllowed, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func StoreUnavailable(err error) *AppError {
	return &AppError{Kind: KindStoreUnavailable, Message: "store unavailable", Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal error", Err: err}
}

// Wrap classifies an arbitrary store error: record-not-found sentinels stay
// what they are upstream, everything else becomes internal.
func Wrap(err error, message string) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	if appErr, ok := As(err); ok {
		return appErr.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool { return IsKind(err, KindConflict) }
func IsValidation(err error) bool {
	return IsKind(err, KindValidation)
}
