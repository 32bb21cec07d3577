package apperr

import (
	"errors"
	"fmt"
)

// AppError is a typed failure the API layer can map to a response.
// Soft errors describe a no-op outcome (already a member, already rated)
// rather than a failure; they leave state untouched.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Soft    bool   `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Constructors
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func AlreadyExists(msg string) error {
	return New(CodeAlreadyExists, msg)
}

func Unauthorized(msg string) error {
	return New(CodeUnauthenticated, msg)
}

func Forbidden(msg string) error {
	return New(CodePermissionDenied, msg)
}

func Internal(msg string) error {
	return New(CodeInternal, msg)
}

func FailedPrecondition(msg string) error {
	return New(CodeFailedPrecondition, msg)
}

func ResourceExhausted(msg string) error {
	return New(CodeResourceExhausted, msg)
}

// Soft builds an informational outcome.
func Soft(msg string) error {
	return &AppError{Code: CodeAlreadyExists, Message: msg, Soft: true}
}

// CodeOf returns the code of the first AppError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsSoft reports whether err is an informational no-op outcome.
func IsSoft(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Soft
}
