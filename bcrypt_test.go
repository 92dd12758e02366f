package referrals_test

import (
	"testing"

	referrals "github.com/goliatone/go-referrals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a non empty password", func(t *testing.T) {
		hash, err := referrals.HashPassword("password123")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "password123", hash)
	})

	t.Run("rejects empty passwords", func(t *testing.T) {
		hash, err := referrals.HashPassword("")
		assert.ErrorIs(t, err, referrals.ErrNoEmptyString)
		assert.Empty(t, hash)
	})

	t.Run("same password hashes to different values", func(t *testing.T) {
		first, err := referrals.HashPassword("password123")
		require.NoError(t, err)
		second, err := referrals.HashPassword("password123")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := referrals.HashPassword("password123")
	require.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		assert.NoError(t, referrals.ComparePasswordAndHash("password123", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := referrals.ComparePasswordAndHash("not-the-password", hash)
		assert.ErrorIs(t, err, referrals.ErrMismatchedHashAndPassword)
	})

	t.Run("garbage hash", func(t *testing.T) {
		err := referrals.ComparePasswordAndHash("password123", "not-a-bcrypt-hash")
		assert.Error(t, err)
	})
}
