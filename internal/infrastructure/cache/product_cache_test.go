package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopfacade/backend/internal/domain/catalog"
	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// failingStore fails every operation
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingStore) Delete(context.Context, ...string) error {
	return errors.New("connection refused")
}

func (failingStore) Close() error { return nil }

func newTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("p1", "Keyboard", decimal.RequireFromString("10.50"))
	require.NoError(t, err)
	return product
}

func TestCachedProductRepository_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		repo := new(MockProductRepository)
		store := NewInMemoryStore()
		defer store.Close()

		product := newTestProduct(t)
		repo.On("FindByID", ctx, "p1").Return(product, nil).Once()

		cached := NewCachedProductRepository(repo, store, time.Minute, nil)

		first, err := cached.FindByID(ctx, "p1")
		require.NoError(t, err)
		second, err := cached.FindByID(ctx, "p1")
		require.NoError(t, err)

		assert.Equal(t, first.Name, second.Name)
		assert.True(t, second.Price.Equal(decimal.RequireFromString("10.50")))
		assert.Equal(t, "p1", second.ID)
		repo.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		repo := new(MockProductRepository)
		store := NewInMemoryStore()
		defer store.Close()

		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

		cached := NewCachedProductRepository(repo, store, time.Minute, nil)

		_, err := cached.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = cached.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		repo.AssertNumberOfCalls(t, "FindByID", 2)
		assert.Zero(t, store.Size())
	})

	t.Run("falls back to repository when cache fails", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		repo := new(MockProductRepository)
		repo.On("FindByID", ctx, "p1").Return(newTestProduct(t), nil)

		cached := NewCachedProductRepository(repo, failingStore{}, time.Minute, zap.New(core))

		product, err := cached.FindByID(ctx, "p1")

		require.NoError(t, err)
		assert.Equal(t, "Keyboard", product.Name)
		assert.Equal(t, 1, logs.FilterMessage("product cache read failed").Len())
		assert.Equal(t, 1, logs.FilterMessage("product cache write failed").Len())
	})

	t.Run("discards undecodable entry", func(t *testing.T) {
		repo := new(MockProductRepository)
		store := NewInMemoryStore()
		defer store.Close()

		require.NoError(t, store.Set(ctx, "product:p1", []byte("{not json"), time.Minute))
		repo.On("FindByID", ctx, "p1").Return(newTestProduct(t), nil).Once()

		cached := NewCachedProductRepository(repo, store, time.Minute, nil)

		product, err := cached.FindByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Keyboard", product.Name)

		data, err := store.Get(ctx, "product:p1")
		require.NoError(t, err)
		assert.Contains(t, string(data), `"name":"Keyboard"`)
	})
}

func TestCachedProductRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("save invalidates", func(t *testing.T) {
		repo := new(MockProductRepository)
		store := NewInMemoryStore()
		defer store.Close()

		product := newTestProduct(t)
		repo.On("FindByID", ctx, "p1").Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)

		cached := NewCachedProductRepository(repo, store, time.Minute, nil)

		_, err := cached.FindByID(ctx, "p1")
		require.NoError(t, err)
		require.NoError(t, cached.Save(ctx, product))

		_, err = store.Get(ctx, "product:p1")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("delete invalidates", func(t *testing.T) {
		repo := new(MockProductRepository)
		store := NewInMemoryStore()
		defer store.Close()

		repo.On("FindByID", ctx, "p1").Return(newTestProduct(t), nil)
		repo.On("Delete", ctx, "p1").Return(nil)

		cached := NewCachedProductRepository(repo, store, time.Minute, nil)

		_, err := cached.FindByID(ctx, "p1")
		require.NoError(t, err)
		require.NoError(t, cached.Delete(ctx, "p1"))

		_, err = store.Get(ctx, "product:p1")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("failed save keeps cache untouched", func(t *testing.T) {
		repo := new(MockProductRepository)
		store := NewInMemoryStore()
		defer store.Close()

		product := newTestProduct(t)
		repo.On("FindByID", ctx, "p1").Return(product, nil)
		repo.On("Save", ctx, product).Return(errors.New("db down"))

		cached := NewCachedProductRepository(repo, store, time.Minute, nil)

		_, err := cached.FindByID(ctx, "p1")
		require.NoError(t, err)
		assert.Error(t, cached.Save(ctx, product))

		_, err = store.Get(ctx, "product:p1")
		assert.NoError(t, err)
	})
}

func TestCachedProductRepository_PassThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	filter := shared.DefaultFilter()

	repo.On("FindAll", ctx, filter).Return([]catalog.Product{*newTestProduct(t)}, nil)
	repo.On("Count", ctx, filter).Return(int64(1), nil)

	cached := NewCachedProductRepository(repo, failingStore{}, 0, nil)

	products, err := cached.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	count, err := cached.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, DefaultProductTTL, cached.ttl)
}
