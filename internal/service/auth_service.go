// Package service holds the application use cases that sit between the HTTP
// handlers and the repositories.
package service

import (
	"context"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// AuthService registers users and exchanges credentials for session tokens.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.Hasher
	tokens   TokenIssuer
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo repository.UserRepository, hasher auth.Hasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Register validates the input in a fixed order, rejects an email or username
// that is already taken, stores the user and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	if err := validation.ValidateRegistration(in.Email, in.Username, in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrUserExists
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: digest,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password, after spending a bcrypt comparison in either case.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.PublicUser, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.hasher.Verify(in.Password, "")
		return nil, models.ErrInvalidCredentials
	}
	if !s.hasher.Verify(in.Password, user.Password) {
		return nil, models.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*models.PublicUser, error) {
	token, err := s.tokens.Issue(auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &models.PublicUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}, nil
}
