package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))

	assert.True(t, h.Verify("secret1", digest))
	assert.False(t, h.Verify("secret2", digest))
	assert.False(t, h.Verify("secret1", ""))
}

func TestBcryptHasher_SaltsEachDigest(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"Default", DefaultCost, DefaultCost},
		{"Minimum", bcrypt.MinCost, bcrypt.MinCost},
		{"Too Low", 1, DefaultCost},
		{"Too High", bcrypt.MaxCost + 1, DefaultCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewBcryptHasher(tt.in).Cost())
		})
	}
}
