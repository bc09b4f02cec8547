package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthenticated is returned when no Authorization header is present.
var ErrUnauthenticated = errors.New("authentication required")

// Verifier verifies a raw bearer token.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Gate turns an Authorization header into an Identity. It does no I/O beyond
// token verification: claims are trusted as of issuance.
type Gate struct {
	verifier Verifier
}

// NewGate returns a Gate backed by verifier.
func NewGate(verifier Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authenticate resolves header, which must be "Bearer <token>". An absent
// header yields ErrUnauthenticated; anything else that fails yields
// ErrInvalidToken.
func (g *Gate) Authenticate(header string) (Identity, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Identity{}, ErrUnauthenticated
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return Identity{}, ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	id, err := g.verifier.Verify(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx by WithIdentity.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
