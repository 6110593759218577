// Package apperr defines the error taxonomy shared by the feed and session packages.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeFeedUnavailable    Code = "FEED_UNAVAILABLE"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeDuplicateNickname  Code = "DUPLICATE_NICKNAME"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
)

// HTTPStatus maps a code to the status the API answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnavailable, CodeFeedUnavailable:
		return fiber.StatusServiceUnavailable
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeUnauthenticated, CodeInvalidCredentials:
		return fiber.StatusUnauthorized
	case CodeInvalidInput:
		return fiber.StatusBadRequest
	case CodeDuplicateNickname:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Error is a domain error carrying a code and a user-facing message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, apperr.ErrNotFound) works across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Err == nil
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnavailable        = &Error{Code: CodeUnavailable, Message: "service unavailable, try again"}
	ErrFeedUnavailable    = &Error{Code: CodeFeedUnavailable, Message: "feed could not be loaded, try again"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUnauthenticated    = &Error{Code: CodeUnauthenticated, Message: "login required"}
	ErrInvalidInput       = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrDuplicateNickname  = &Error{Code: CodeDuplicateNickname, Message: "nickname already taken"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Unavailable(op string, err error) *Error {
	return Wrap(CodeUnavailable, op+" unavailable", err)
}

func NotFound(what string) *Error {
	return New(CodeNotFound, what+" not found")
}

func InvalidInput(message string) *Error {
	return New(CodeInvalidInput, message)
}

// GetCode extracts the code from any error, CodeUnknown for foreign errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// Fiber converts err into the *fiber.Error returned by handlers. Unknown
// errors are answered with a generic 500 message.
func Fiber(err error) *fiber.Error {
	var e *Error
	if errors.As(err, &e) {
		return fiber.NewError(e.Code.HTTPStatus(), e.Message)
	}
	return fiber.NewError(fiber.StatusInternalServerError, "an unexpected error occurred")
}
