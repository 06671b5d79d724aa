package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenNotYetValid     = fmt.Errorf("token not valid yet")

	// Authorization
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("invalid authorization header format")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("access denied")
	ErrUserDeactivated    = fmt.Errorf("user is deactivated")

	// Context
	ErrIdentityNotFoundInContext = fmt.Errorf("identity not found in request context")

	// General
	ErrNotFound      = fmt.Errorf("record not found")
	ErrAlreadyExists = fmt.Errorf("record already exists")
	ErrConflict      = fmt.Errorf("conflicting concurrent change")
	ErrValidation    = fmt.Errorf("validation error")
	ErrBadRequest    = fmt.Errorf("bad request")
	ErrInternal      = fmt.Errorf("internal error")
)

// Kind classifies every failure the workflow engine can return.
type Kind string

const (
	KindNotFound      Kind = "NOT_FOUND"
	KindAlreadyExists Kind = "ALREADY_EXISTS"
	KindValidation    Kind = "VALIDATION"
	KindUnauthorized  Kind = "UNAUTHORIZED"
	KindForbidden     Kind = "FORBIDDEN"
	KindInternal      Kind = "INTERNAL"
)

var kindSentinels = map[Kind]error{
	KindNotFound:      ErrNotFound,
	KindAlreadyExists: ErrAlreadyExists,
	KindValidation:    ErrValidation,
	KindUnauthorized:  ErrUnauthorized,
	KindForbidden:     ErrForbidden,
	KindInternal:      ErrInternal,
}

// AppError is a typed failure. Message is safe to show to the caller,
// Err keeps the internal cause for logs.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match an *AppError of kind NOT_FOUND.
func (e *AppError) Is(target error) bool {
	if sentinel, ok := kindSentinels[e.Kind]; ok && sentinel == target {
		return true
	}
	return false
}

func newAppError(kind Kind, err error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...interface{}) error {
	return newAppError(KindNotFound, nil, format, args...)
}

func Validation(format string, args ...interface{}) error {
	return newAppError(KindValidation, nil, format, args...)
}

func AlreadyExists(format string, args ...interface{}) error {
	return newAppError(KindAlreadyExists, nil, format, args...)
}

func Internal(err error) error {
	return newAppError(KindInternal, err, "internal error")
}

// KindOf reports the kind of err. Conflicts surface as ALREADY_EXISTS,
// anything unclassified as INTERNAL.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return KindAlreadyExists
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadRequest):
		return KindValidation
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenNotYetValid), errors.Is(err, ErrInvalidSigningMethod), errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader), errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUserDeactivated):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	}
	return KindInternal
}

// HttpError carries the HTTP status chosen by a controller together with
// the internal cause and some context for the logs.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}
