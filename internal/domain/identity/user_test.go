package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with valid inputs", func(t *testing.T) {
		user, err := NewUser("u1", "Alice", "Alice@Example.com")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("generates id when empty", func(t *testing.T) {
		user, err := NewUser("", "Bob", "")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Empty(t, user.Email)
	})

	t.Run("trims name", func(t *testing.T) {
		user, err := NewUser("u2", "  Carol  ", "")
		require.NoError(t, err)
		assert.Equal(t, "Carol", user.Name)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewUser("u3", "   ", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewUser("u3", strings.Repeat("a", 101), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		_, err := NewUser("u3", "Dave", "not-an-email")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email format")
	})
}

func TestUserUpdate(t *testing.T) {
	user, err := NewUser("u1", "Alice", "alice@example.com")
	require.NoError(t, err)
	user.UpdatedAt = time.Now().Add(-time.Hour)
	before := user.UpdatedAt

	t.Run("updates profile fields", func(t *testing.T) {
		err := user.Update("Alice Smith", "ALICE.SMITH@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", user.Name)
		assert.Equal(t, "alice.smith@example.com", user.Email)
		assert.True(t, user.UpdatedAt.After(before))
	})

	t.Run("rejects invalid name and keeps state", func(t *testing.T) {
		err := user.Update("", "x@example.com")
		require.Error(t, err)
		assert.Equal(t, "Alice Smith", user.Name)
	})
}
