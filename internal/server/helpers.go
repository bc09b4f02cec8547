package server

import (
	"errors"
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

var errInvalidBody = models.NewValidationError("Invalid request body")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param, label string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid "+label))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondError writes err as a JSON error body, logging the cause of
// internal errors since the body never carries it.
func respondError(c *fiber.Ctx, err error) error {
	if models.StatusFor(err) == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, err)
}

// messageResponse is the body of write endpoints that return no resource.
type messageResponse struct {
	Message string `json:"message"`
}
