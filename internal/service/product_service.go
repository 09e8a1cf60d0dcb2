package service

import (
	"context"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"go.uber.org/zap"
)

// ProductStore reads the menu catalog
type ProductStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
}

// ProductCache is a read-through cache in front of the catalog
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
}

const productCacheTTL = 5 * time.Minute

// ProductService serves product lookups with a cache-aside fast path
type ProductService struct {
	store  ProductStore
	cache  ProductCache
	logger *zap.Logger
}

// NewProductService creates a new product service. The cache may be nil, in
// which case every lookup hits the store.
func NewProductService(store ProductStore, cache ProductCache) *ProductService {
	return &ProductService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// GetProduct retrieves a product by id, preferring the cache. Cache failures
// fall back to the store and never fail the lookup.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		product, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			s.logger.Debug("Product cache lookup failed", zap.String("product_id", id), zap.Error(err))
		} else if product != nil {
			return product, nil
		}
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product, productCacheTTL); err != nil {
			s.logger.Debug("Product cache store failed", zap.String("product_id", id), zap.Error(err))
		}
	}

	return product, nil
}

// ListProducts retrieves the full catalog
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetProducts(ctx)
}
