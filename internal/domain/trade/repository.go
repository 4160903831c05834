package trade

import (
	"context"

	"github.com/shopfacade/backend/internal/domain/shared"
)

// FilterUserID is the shared.Filter key restricting orders to one user
const FilterUserID = "user_id"

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its product references, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates an order together with its product references
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order and its product references
	Delete(ctx context.Context, id string) error
}
