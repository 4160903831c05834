package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopfacade/backend/internal/domain/catalog"
	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
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

func newTestProduct(t *testing.T, id string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(id, "Product "+id, decimal.NewFromInt(price))
	require.NoError(t, err)
	return p
}

func TestProductService_Create_Success(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewProductService(repo)
	ctx := context.Background()

	req := CreateProductRequest{
		Name:        "Keyboard",
		Description: "Mechanical",
		Price:       decimal.RequireFromString("49.90"),
	}
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, req)

	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Keyboard", result.Name)
	assert.Equal(t, "Mechanical", result.Description)
	assert.True(t, result.Price.Equal(decimal.RequireFromString("49.90")))
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProductService_Create_WithExplicitID(t *testing.T) {
	ctx := context.Background()

	t.Run("uses supplied id", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindByID", ctx, "p1").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		result, err := service.Create(ctx, CreateProductRequest{ID: "p1", Name: "One", Price: decimal.NewFromInt(10)})

		require.NoError(t, err)
		assert.Equal(t, "p1", result.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindByID", ctx, "p1").Return(newTestProduct(t, "p1", 10), nil)

		result, err := service.Create(ctx, CreateProductRequest{ID: "p1", Name: "One", Price: decimal.NewFromInt(10)})

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_Create_NegativePrice(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewProductService(repo)

	result, err := service.Create(context.Background(), CreateProductRequest{Name: "Bad", Price: decimal.NewFromInt(-1)})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PRICE", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindByID", ctx, "p1").Return(newTestProduct(t, "p1", 10), nil)

		result, err := service.FindByID(ctx, "p1")

		require.NoError(t, err)
		assert.Equal(t, "p1", result.ID)
		assert.True(t, result.Price.Equal(decimal.NewFromInt(10)))
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

		result, err := service.FindByID(ctx, "missing")

		assert.Nil(t, result)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestProductService_List(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewProductService(repo)
	ctx := context.Background()

	products := []catalog.Product{*newTestProduct(t, "p1", 10), *newTestProduct(t, "p2", 5)}
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 10 && f.OrderBy == "price" && f.Search == "key"
	})).Return(products, nil)
	repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(12), nil)

	result, total, err := service.List(ctx, ProductListFilter{Search: "key", Page: 2, PageSize: 10, OrderBy: "price"})

	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "p2", result[1].ID)
	assert.Equal(t, int64(12), total)
	repo.AssertExpectations(t)
}

func TestProductService_List_RepositoryError(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewProductService(repo)
	ctx := context.Background()

	repo.On("FindAll", ctx, mock.Anything).Return([]catalog.Product(nil), errors.New("db down"))

	result, total, err := service.List(ctx, ProductListFilter{})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Zero(t, total)
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates provided fields only", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		existing := newTestProduct(t, "p1", 10)
		existing.Description = "old"
		repo.On("FindByID", ctx, "p1").Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		price := decimal.NewFromInt(12)
		result, err := service.Update(ctx, "p1", UpdateProductRequest{Price: &price})

		require.NoError(t, err)
		assert.Equal(t, "Product p1", result.Name)
		assert.Equal(t, "old", result.Description)
		assert.True(t, result.Price.Equal(price))
		repo.AssertExpectations(t)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindByID", ctx, "p1").Return(newTestProduct(t, "p1", 10), nil)

		price := decimal.NewFromInt(-5)
		_, err := service.Update(ctx, "p1", UpdateProductRequest{Price: &price})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

		name := "x"
		_, err := service.Update(ctx, "missing", UpdateProductRequest{Name: &name})

		assert.True(t, shared.IsNotFound(err))
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindByID", ctx, "p1").Return(newTestProduct(t, "p1", 10), nil)
		repo.On("Delete", ctx, "p1").Return(nil)

		require.NoError(t, service.Delete(ctx, "p1"))
		repo.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

		err := service.Delete(ctx, "missing")

		assert.True(t, shared.IsNotFound(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
