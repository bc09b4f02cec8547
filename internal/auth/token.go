package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenLifetime is how long an issued token stays valid.
	TokenLifetime = 30 * 24 * time.Hour
	// Issuer is the iss claim written into and required on every token.
	Issuer = "inkwell-api"
)

var (
	// ErrMissingSecret is returned when a TokenIssuer is built without a secret.
	ErrMissingSecret = errors.New("auth: token signing secret is required")
	// ErrInvalidToken is the only verification failure callers ever see;
	// expired, malformed and forged tokens are indistinguishable.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated user as embedded in a token.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Claims is the JWT payload.
type Claims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with a server-held secret.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// TokenOption configures a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) {
		t.now = now
	}
}

// NewTokenIssuer builds an issuer for secret.
func NewTokenIssuer(secret []byte, opts ...TokenOption) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	t := &TokenIssuer{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue signs a token for id that expires TokenLifetime from now.
func (t *TokenIssuer) Issue(id Identity) (string, error) {
	now := t.now()
	claims := Claims{
		ID:       id.ID,
		Username: id.Username,
		Email:    id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(id.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the embedded
// identity. Every failure is reported as ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid || claims.ID == 0 {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		ID:       claims.ID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}
