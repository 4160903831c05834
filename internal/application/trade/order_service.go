package trade

import (
	"context"

	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/shopfacade/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderService handles order persistence. It knows nothing about users or
// products beyond their identifiers.
type OrderService struct {
	orderRepo trade.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// Create persists a new order record
func (s *OrderService) Create(ctx context.Context, userID string, productIDs []string, total decimal.Decimal) (*OrderResponse, error) {
	order, err := trade.NewOrder(userID, productIDs, total)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// FindByID retrieves an order by ID
func (s *OrderService) FindByID(ctx context.Context, id string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NotFound("Order not found")
		}
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a page of orders, optionally for a single user
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.UserID != "" {
		domainFilter.Filters[trade.FilterUserID] = filter.UserID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// Remove deletes an order
func (s *OrderService) Remove(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, id)
}
