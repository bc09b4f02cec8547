package server

import (
	"errors"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User *models.PublicUser `json:"user"`
}

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(authResponse{User: user})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			middleware.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		}
		return respondError(c, err)
	}

	return c.JSON(authResponse{User: user})
}

// CheckAuth handles GET /api/auth/check-auth. It echoes the identity carried
// by the token without touching the store.
func (s *Server) CheckAuth(c *fiber.Ctx) error {
	id, ok := identity(c)
	if !ok {
		return respondError(c, errAuthRequired)
	}
	return c.JSON(fiber.Map{
		"message": "Authenticated",
		"user":    id,
	})
}
