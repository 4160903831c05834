package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/shopfacade/backend/internal/domain/identity"
	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupUserService() (*UserService, *MockUserRepository) {
	repo := new(MockUserRepository)
	return NewUserService(repo, zap.NewNop()), repo
}

func newTestUser(t *testing.T, id string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(id, "User "+id, id+"@example.com")
	require.NoError(t, err)
	return user
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with generated id", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		result, err := service.Create(ctx, CreateUserInput{Name: "Alice", Email: "Alice@Example.com"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.ID)
		assert.Equal(t, "Alice", result.Name)
		assert.Equal(t, "alice@example.com", result.Email)
		repo.AssertExpectations(t)
	})

	t.Run("creates user with supplied id and no email", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "u1").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		result, err := service.Create(ctx, CreateUserInput{ID: "u1", Name: "Alice"})

		require.NoError(t, err)
		assert.Equal(t, "u1", result.ID)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "u1").Return(newTestUser(t, "u1"), nil)

		_, err := service.Create(ctx, CreateUserInput{ID: "u1", Name: "Alice"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("ExistsByEmail", ctx, "alice@example.com").Return(true, nil)

		_, err := service.Create(ctx, CreateUserInput{Name: "Alice", Email: "alice@example.com"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_EXISTS", domainErr.Code)
	})

	t.Run("rejects invalid name", func(t *testing.T) {
		service, repo := setupUserService()

		_, err := service.Create(ctx, CreateUserInput{Name: "  "})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("maps save failure to internal error", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(errors.New("db down"))

		_, err := service.Create(ctx, CreateUserInput{Name: "Alice"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	})
}

func TestUserService_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "u1").Return(newTestUser(t, "u1"), nil)

		result, err := service.FindByID(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, "u1", result.ID)
		assert.Equal(t, "u1@example.com", result.Email)
	})

	t.Run("not found keeps NOT_FOUND code", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

		result, err := service.FindByID(ctx, "missing")

		assert.Nil(t, result)
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, "User not found", err.Error())
	})

	t.Run("repository failure", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "u1").Return(nil, errors.New("connection reset"))

		_, err := service.FindByID(ctx, "u1")

		assert.False(t, shared.IsNotFound(err))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	})
}

func TestUserService_List(t *testing.T) {
	service, repo := setupUserService()
	ctx := context.Background()

	users := []identity.User{*newTestUser(t, "u1"), *newTestUser(t, "u2"), *newTestUser(t, "u3")}
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 3
	})).Return(users, nil)
	repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(7), nil)

	result, err := service.List(ctx, UserListFilter{PageSize: 3})

	require.NoError(t, err)
	assert.Len(t, result.Users, 3)
	assert.Equal(t, int64(7), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, "u2", result.Users[1].ID)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates name and keeps email", func(t *testing.T) {
		service, repo := setupUserService()
		user := newTestUser(t, "u1")
		repo.On("FindByID", ctx, "u1").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		name := "Renamed"
		result, err := service.Update(ctx, UpdateUserInput{ID: "u1", Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", result.Name)
		assert.Equal(t, "u1@example.com", result.Email)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})

	t.Run("rejects email taken by another user", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "u1").Return(newTestUser(t, "u1"), nil)
		repo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

		email := "taken@example.com"
		_, err := service.Update(ctx, UpdateUserInput{ID: "u1", Email: &email})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, UpdateUserInput{ID: "missing"})

		assert.True(t, shared.IsNotFound(err))
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing user", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "u1").Return(newTestUser(t, "u1"), nil)
		repo.On("Delete", ctx, "u1").Return(nil)

		require.NoError(t, service.Delete(ctx, "u1"))
		repo.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		service, repo := setupUserService()
		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

		err := service.Delete(ctx, "missing")

		assert.True(t, shared.IsNotFound(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
