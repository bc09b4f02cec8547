package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. They double as the "code" field of the JSON
// error body.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code and message, so
// sentinel AppErrors can be matched with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Predefined error constructors

// NewNotFoundError is used both for missing resources and for resources the
// caller does not own, so existence is never leaked.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// Errors shared by the auth, post and comment flows. Each is an AppError so it
// renders with its own status and message.
var (
	ErrUserExists         = NewValidationError("User already exists")
	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials")
	ErrPostNotFound       = NewNotFoundError("Blog post not found")
	ErrCommentNotFound    = NewNotFoundError("Comment not found")
)

// StatusFor maps an error to the HTTP status it should be reported with.
// Anything that is not an AppError is an internal error.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standardized error body for err. Internal errors
// never expose their cause; callers log it before responding.
func RespondWithError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)

	var appErr *AppError
	if status == fiber.StatusInternalServerError || !errors.As(err, &appErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			Code:    CodeInternal,
		})
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
