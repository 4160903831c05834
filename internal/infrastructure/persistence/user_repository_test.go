package persistence

import (
	"context"
	"testing"

	"github.com/shopfacade/backend/internal/domain/identity"
	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, repo *GormUserRepository, id, name, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(id, name, email)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestGormUserRepository_SaveAndFindByID(t *testing.T) {
	repo := NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	createTestUser(t, repo, "u1", "Alice", "alice@example.com")

	found, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)
	assert.Equal(t, "alice@example.com", found.Email)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestGormUserRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormUserRepository(setupTestDB(t))

	found, err := repo.FindByID(context.Background(), "missing")

	assert.Nil(t, found)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_SaveUpdatesExisting(t *testing.T) {
	repo := NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "u1", "Alice", "alice@example.com")
	require.NoError(t, user.Update("Alice Smith", "alice.smith@example.com"))
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", found.Name)
	assert.Equal(t, "alice.smith@example.com", found.Email)

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormUserRepository_FindAll(t *testing.T) {
	repo := NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	createTestUser(t, repo, "u1", "Alice", "alice@example.com")
	createTestUser(t, repo, "u2", "Bob", "bob@example.com")
	createTestUser(t, repo, "u3", "Carol", "carol@example.com")

	t.Run("sorts by name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "name"
		filter.OrderDir = "asc"

		users, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "Alice", users[0].Name)
		assert.Equal(t, "Carol", users[2].Name)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "name"
		filter.OrderDir = "asc"
		filter.Page = 2
		filter.PageSize = 2

		users, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Carol", users[0].Name)
	})

	t.Run("searches name and email case-insensitively", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "BOB"

		users, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u2", users[0].ID)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ignores unknown sort field", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "password; DROP TABLE users"

		users, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})
}

func TestGormUserRepository_ExistsByEmail(t *testing.T) {
	repo := NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	createTestUser(t, repo, "u1", "Alice", "alice@example.com")

	exists, err := repo.ExistsByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormUserRepository_Delete(t *testing.T) {
	repo := NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	createTestUser(t, repo, "u1", "Alice", "alice@example.com")

	require.NoError(t, repo.Delete(ctx, "u1"))

	_, err := repo.FindByID(ctx, "u1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "u1"), shared.ErrNotFound)
}
