package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopfacade/backend/internal/domain/catalog"
	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const productKeyPrefix = "product:"

// DefaultProductTTL is used when the configured TTL is not positive
const DefaultProductTTL = 5 * time.Minute

// cachedProduct is the JSON shape of a product in the cache
type cachedProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func fromProduct(p *catalog.Product) cachedProduct {
	return cachedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (c cachedProduct) toProduct() *catalog.Product {
	return &catalog.Product{
		BaseEntity: shared.BaseEntity{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
	}
}

// CachedProductRepository is a read-through cache in front of a ProductRepository.
// Only FindByID is cached; writes and deletes invalidate the entry. Cache
// failures are logged and the call is served by the wrapped repository.
type CachedProductRepository struct {
	next   catalog.ProductRepository
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProductRepository wraps next with store
func NewCachedProductRepository(next catalog.ProductRepository, store Store, ttl time.Duration, logger *zap.Logger) *CachedProductRepository {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProductRepository{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// FindByID returns the cached product or loads and caches it
func (r *CachedProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	key := productKeyPrefix + id

	data, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		var cached cachedProduct
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			return cached.toProduct(), nil
		}
		r.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		r.invalidate(ctx, id)
	case !errors.Is(err, ErrCacheMiss):
		r.logger.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
	}

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(fromProduct(product)); err == nil {
		if err := r.store.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return product, nil
}

// FindAll is not cached
func (r *CachedProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return r.next.FindAll(ctx, filter)
}

// Count is not cached
func (r *CachedProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.next.Count(ctx, filter)
}

// Save writes through and invalidates the cached entry
func (r *CachedProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if err := r.next.Save(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, product.ID)
	return nil
}

// Delete deletes through and invalidates the cached entry
func (r *CachedProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedProductRepository) invalidate(ctx context.Context, id string) {
	if err := r.store.Delete(ctx, productKeyPrefix+id); err != nil {
		r.logger.Warn("product cache invalidation failed", zap.String("product_id", id), zap.Error(err))
	}
}

var _ catalog.ProductRepository = (*CachedProductRepository)(nil)
