package server

import (
	"errors"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

var (
	errAuthRequired = models.NewUnauthorizedError("Authentication required")
	errInvalidToken = models.NewUnauthorizedError("Invalid token")
)

// AuthRequired rejects requests without a valid bearer token. On success the
// identity is stored in the request context and the user id in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.gate.Authenticate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				middleware.AuthFailures.WithLabelValues("missing_token").Inc()
				return models.RespondWithError(c, errAuthRequired)
			}
			middleware.AuthFailures.WithLabelValues("invalid_token").Inc()
			return models.RespondWithError(c, errInvalidToken)
		}

		c.Locals("userID", id.ID)
		c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

// identity returns the caller resolved by AuthRequired.
func identity(c *fiber.Ctx) (auth.Identity, bool) {
	return auth.IdentityFrom(c.UserContext())
}
