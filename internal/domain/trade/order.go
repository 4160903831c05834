package trade

import (
	"strings"

	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Order is a purchase of one or more products by a single user.
// ProductIDs keeps request order and duplicates; Total is fixed at creation.
type Order struct {
	shared.BaseEntity
	UserID     string
	ProductIDs []string
	Total      decimal.Decimal
}

// NewOrder creates a new order record
func NewOrder(userID string, productIDs []string, total decimal.Decimal) (*Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, shared.InvalidInput("Order must reference a user")
	}
	if len(productIDs) == 0 {
		return nil, shared.InvalidInput("Order must reference at least one product")
	}
	for _, id := range productIDs {
		if strings.TrimSpace(id) == "" {
			return nil, shared.InvalidInput("Product ID cannot be empty")
		}
	}
	if total.IsNegative() {
		return nil, shared.InvalidInput("Order total cannot be negative")
	}

	ids := make([]string, len(productIDs))
	copy(ids, productIDs)

	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductIDs: ids,
		Total:      total,
	}, nil
}

// ItemCount returns the number of product references, duplicates included
func (o *Order) ItemCount() int {
	return len(o.ProductIDs)
}
