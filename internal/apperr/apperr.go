// Package apperr carries the application error taxonomy and the single
// translator that maps it onto HTTP responses.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/JCWilliams12/TaskTrack/pkg/logger"
)

// Error is an expected failure with a fixed outward mapping. Anything that
// reaches the translator without this type is treated as unexpected and
// surfaces as a generic 500.
type Error struct {
	Status  int
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation covers malformed or out-of-range input.
func Validation(message string, details interface{}) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message, Details: details}
}

// MissingCredential covers requests with no extractable bearer token.
func MissingCredential(message string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: message}
}

// InvalidCredential covers tokens that fail verification or resolve to no
// user. Distinct from MissingCredential so clients can tell "please log in"
// from "your session is broken".
func InvalidCredential(message string) *Error {
	return &Error{Status: fiber.StatusForbidden, Message: message}
}

// LoginFailed covers an unsuccessful login attempt. One message regardless of
// whether the account exists.
func LoginFailed(message string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: message}
}

// NotFound covers resources that are absent or owned by someone else; the two
// are deliberately indistinguishable.
func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

// Conflict covers duplicate identity at registration. Maps to 400.
func Conflict(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message}
}

type response struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorHandler is installed in fiber.Config and is the only place errors turn
// into HTTP responses. Unexpected errors are logged in full and answered with
// a body that leaks nothing.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(response{Message: appErr.Message, Details: appErr.Details})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(response{Message: fiberErr.Message})
	}

	logger.ErrorLogger.Error("Unexpected error",
		zap.String("method", c.Method()),
		zap.String("url", c.OriginalURL()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(response{Message: "Internal server error"})
}
