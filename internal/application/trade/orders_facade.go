package trade

import (
	"context"
	"strings"

	catalogapp "github.com/shopfacade/backend/internal/application/catalog"
	identityapp "github.com/shopfacade/backend/internal/application/identity"
	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/shopfacade/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds in-flight product lookups per order
const maxConcurrentLookups = 8

// UserDirectory resolves users by ID
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*identityapp.UserDTO, error)
}

// ProductCatalog resolves products by ID
type ProductCatalog interface {
	FindByID(ctx context.Context, id string) (*catalogapp.ProductResponse, error)
}

// OrderStore persists order records
type OrderStore interface {
	Create(ctx context.Context, userID string, productIDs []string, total decimal.Decimal) (*OrderResponse, error)
}

// OrdersFacade coordinates order creation across the users, products and
// orders modules. It is the only component that talks to all three.
type OrdersFacade struct {
	users    UserDirectory
	products ProductCatalog
	orders   OrderStore
	logger   *zap.Logger
}

// NewOrdersFacade creates a new OrdersFacade
func NewOrdersFacade(users UserDirectory, products ProductCatalog, orders OrderStore, logger *zap.Logger) *OrdersFacade {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersFacade{
		users:    users,
		products: products,
		orders:   orders,
		logger:   logger,
	}
}

// CreateOrder validates the user and products, prices the order and persists it.
// Unknown product IDs are dropped; the order fails only when none resolve.
// Nothing is written unless every check passes.
func (f *OrdersFacade) CreateOrder(ctx context.Context, req CreateOrderRequest) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "orders_facade", "create_order",
		telemetry.SpanAttrUserID, req.UserID,
		telemetry.SpanAttrRequestedItems, len(req.ProductIDs),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, shared.InvalidInput("user_id is required")
	}
	if len(req.ProductIDs) == 0 {
		return nil, shared.InvalidInput("product_ids must not be empty")
	}

	user, err := f.users.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NotFound("User not found")
		}
		return nil, err
	}

	products, err := f.resolveProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, shared.InvalidInput("no available products")
	}
	if dropped := len(req.ProductIDs) - len(products); dropped > 0 {
		f.logger.Info("Dropped unknown products from order",
			zap.String("user_id", userID),
			zap.Int("dropped", dropped))
	}

	productIDs := make([]string, len(products))
	total := decimal.Zero
	for i, p := range products {
		productIDs[i] = p.ID
		total = total.Add(p.Price)
	}

	order, err := f.orders.Create(ctx, userID, productIDs, total)
	if err != nil {
		f.logger.Error("Failed to create order", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID,
		telemetry.SpanAttrResolvedItems, len(products),
		telemetry.SpanAttrOrderTotal, total.String(),
	)
	f.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("total", total.String()))

	order.User = user
	order.Products = products
	return order, nil
}

// resolveProducts looks up every requested ID concurrently and returns the
// products that exist, in request order. Duplicates resolve independently.
func (f *OrdersFacade) resolveProducts(ctx context.Context, ids []string) ([]catalogapp.ProductResponse, error) {
	resolved := make([]*catalogapp.ProductResponse, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, id := range ids {
		g.Go(func() error {
			product, err := f.products.FindByID(gctx, id)
			if err != nil {
				if shared.IsNotFound(err) {
					return nil
				}
				return err
			}
			resolved[i] = product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := make([]catalogapp.ProductResponse, 0, len(ids))
	for _, p := range resolved {
		if p != nil {
			products = append(products, *p)
		}
	}
	return products, nil
}
