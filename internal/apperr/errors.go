// Package apperr holds the agent's error taxonomy.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for propagation and presentation.
type Kind string

const (
	KindAuth       Kind = "AUTH"
	KindNotFound   Kind = "NOT_FOUND"
	KindNetwork    Kind = "NETWORK"
	KindValidation Kind = "VALIDATION"
	KindShape      Kind = "SHAPE"
	KindUnknown    Kind = "UNKNOWN"
)

var (
	ErrNoSession = &Error{Kind: KindAuth, Message: "no active session"}
	ErrNotFound  = &Error{Kind: KindNotFound, Message: "not found"}
)

type Error struct {
	Kind    Kind
	Message string
	// Fields carries per-field validation failures.
	Fields map[string]string
	// Status is the HTTP status reported by the backend, if any.
	Status int
	// Remote marks Message as text written by the platform, not the agent.
	Remote bool
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by kind so callers can test errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func Auth(message string, status int) *Error {
	return &Error{Kind: KindAuth, Message: message, Status: status}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: http.StatusNotFound}
}

func Network(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Cause: cause}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Shape(message string, cause error) *Error {
	return &Error{Kind: KindShape, Message: message, Cause: cause}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsAuth(err error) bool {
	return KindOf(err) == KindAuth
}

// Retryable reports whether the user may retry the action as is.
// Auth errors need re-authentication first.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindShape, KindUnknown:
		return true
	}
	return false
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindNetwork:
		return http.StatusServiceUnavailable
	case KindValidation:
		return http.StatusBadRequest
	case KindShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
