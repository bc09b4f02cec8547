// Package auth implements password hashing, bearer token issuance and the
// request-level authentication gate.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// BcryptHasher is a Hasher backed by bcrypt.
type BcryptHasher struct {
	cost int
	// dummy is compared against when there is no stored digest, so lookups for
	// unknown users cost about as much as a real comparison.
	dummy []byte
}

var _ Hasher = (*BcryptHasher)(nil)

// NewBcryptHasher returns a hasher with the given cost. Out-of-range costs
// fall back to DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("inkwell-dummy-password"), cost)
	if err != nil {
		// Only fails on resource exhaustion.
		panic(fmt.Sprintf("auth: generate dummy digest: %v", err))
	}
	return &BcryptHasher{cost: cost, dummy: dummy}
}

// Hash returns the salted bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. An empty digest is compared
// against the dummy digest and always fails.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	if digest == "" {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}
