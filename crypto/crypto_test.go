package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashIsNotPlaintext(t *testing.T) {
	h := NewBcrypt(MinCost)

	hash, err := h.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.NotContains(t, hash, "s3cret-pass")
}

func TestDistinctPasswordsDistinctHashes(t *testing.T) {
	h := NewBcrypt(MinCost)

	a, err := h.HashPassword("password-a")
	require.NoError(t, err)
	b, err := h.HashPassword("password-b")
	require.NoError(t, err)
	again, err := h.HashPassword("password-a")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, again, "salt must differ per hash")
}

func TestComparePassword(t *testing.T) {
	h := NewBcrypt(MinCost)

	a, err := h.HashPassword("password-a")
	require.NoError(t, err)
	b, err := h.HashPassword("password-b")
	require.NoError(t, err)

	assert.True(t, h.ComparePassword(a, "password-a"))
	assert.False(t, h.ComparePassword(b, "password-a"))
	assert.False(t, h.ComparePassword("not-a-hash", "password-a"))
}

func TestCostFloor(t *testing.T) {
	h := NewBcrypt(4)
	hash, err := h.HashPassword("password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, MinCost, cost)
}

func TestPasswordTooLong(t *testing.T) {
	_, err := NewBcrypt(MinCost).HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
