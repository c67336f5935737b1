package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("teacher123")
	require.NoError(t, err)
	assert.NotEqual(t, "teacher123", hash)

	assert.True(t, h.Compare(hash, "teacher123"))
	assert.False(t, h.Compare(hash, "teacher124"))
	assert.False(t, h.Compare("not-a-hash", "teacher123"))

	again, err := h.Hash("teacher123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")
}

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}
