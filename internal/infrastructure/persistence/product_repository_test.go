package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopfacade/backend/internal/domain/catalog"
	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T, repo *GormProductRepository, id, name string, price int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(id, name, decimal.NewFromInt(price))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestGormProductRepository_SaveAndFindByID(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	product, err := catalog.NewProduct("p1", "Keyboard", decimal.RequireFromString("49.5"))
	require.NoError(t, err)
	require.NoError(t, product.Update("Keyboard", "Mechanical, 87 keys"))
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", found.Name)
	assert.Equal(t, "Mechanical, 87 keys", found.Description)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("49.5")), "got %s", found.Price)
}

func TestGormProductRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))

	found, err := repo.FindByID(context.Background(), "missing")

	assert.Nil(t, found)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindAll(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	createTestProduct(t, repo, "p1", "Keyboard", 50)
	createTestProduct(t, repo, "p2", "Mouse", 20)
	createTestProduct(t, repo, "p3", "Monitor", 300)

	t.Run("sorts by price descending", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "price"
		filter.OrderDir = "desc"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "p3", products[0].ID)
		assert.Equal(t, "p2", products[2].ID)
	})

	t.Run("searches by name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "mo"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("treats wildcards literally", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "%"

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	createTestProduct(t, repo, "p1", "Keyboard", 50)

	require.NoError(t, repo.Delete(ctx, "p1"))
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), shared.ErrNotFound)
}

func TestGormProductRepository_PostgresFindByID(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	repo := NewGormProductRepository(db.DB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1 ORDER BY "products"."id" LIMIT $2`)).
		WithArgs("p1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price"}).
			AddRow("p1", "Keyboard", "", "49.5000"))

	product, err := repo.FindByID(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Keyboard", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("49.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_PostgresDelete_NotFound(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	repo := NewGormProductRepository(db.DB)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products" WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
