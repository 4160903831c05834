package trade

import (
	"time"

	catalogapp "github.com/shopfacade/backend/internal/application/catalog"
	identityapp "github.com/shopfacade/backend/internal/application/identity"
	"github.com/shopfacade/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents a request to place an order for a user
type CreateOrderRequest struct {
	UserID     string   `json:"user_id" binding:"required,min=1,max=64"`
	ProductIDs []string `json:"product_ids" binding:"required,min=1,dive,required"`
}

// OrderResponse represents an order in API responses.
// User and Products are only populated on the order returned by creation.
type OrderResponse struct {
	ID         string                       `json:"id"`
	UserID     string                       `json:"user_id"`
	ProductIDs []string                     `json:"product_ids"`
	Total      decimal.Decimal              `json:"total"`
	User       *identityapp.UserDTO         `json:"user,omitempty"`
	Products   []catalogapp.ProductResponse `json:"products,omitempty"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  time.Time                    `json:"updated_at"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	UserID   string `form:"user_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	ids := make([]string, len(o.ProductIDs))
	copy(ids, o.ProductIDs)
	return OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		ProductIDs: ids,
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders to OrderResponses
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
