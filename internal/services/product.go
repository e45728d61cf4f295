package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"laynie-fae-storefront/internal/cache"
	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/repositories"
)

const (
	productCachePrefix = "catalog:"
	productCacheTTL    = 5 * time.Minute
)

// ProductService handles catalog reads and admin catalog writes, with a
// read-through cache in front of listings.
type ProductService struct {
	products *repositories.ProductRepository
	cache    cache.Cache
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(products *repositories.ProductRepository, c cache.Cache, logger *zap.Logger) *ProductService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ProductService{products: products, cache: c, logger: logger}
}

// GetProduct returns one product by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	key := productCachePrefix + "product:" + id
	if data, err := s.cache.Get(ctx, key); err == nil {
		var product models.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := s.cache.Set(ctx, key, data, productCacheTTL); err != nil {
			s.logger.Warn("failed to cache product", zap.Error(err))
		}
	}
	return product, nil
}

// SearchProducts returns a filtered, paged catalog listing.
func (s *ProductService) SearchProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductSearchResult, error) {
	key := listingCacheKey(filter)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var result models.ProductSearchResult
		if err := json.Unmarshal(data, &result); err == nil {
			return &result, nil
		}
	}

	result, err := s.products.Search(filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, data, productCacheTTL); err != nil {
			s.logger.Warn("failed to cache listing", zap.Error(err))
		}
	}
	return result, nil
}

// FilterOptions returns the distinct filter values in the active catalog.
func (s *ProductService) FilterOptions(ctx context.Context) (*models.ProductFilterOptions, error) {
	key := productCachePrefix + "filters"
	if data, err := s.cache.Get(ctx, key); err == nil {
		var options models.ProductFilterOptions
		if err := json.Unmarshal(data, &options); err == nil {
			return &options, nil
		}
	}

	options, err := s.products.FilterOptions()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(options); err == nil {
		if err := s.cache.Set(ctx, key, data, productCacheTTL); err != nil {
			s.logger.Warn("failed to cache filter options", zap.Error(err))
		}
	}
	return options, nil
}

// CreateProduct adds a product and invalidates cached listings.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	created, err := s.products.Create(product)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

// UpdateProduct updates a product and invalidates cached listings.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	updated, err := s.products.Update(product)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteProduct deactivates a product and invalidates cached listings.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, productCachePrefix); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

func listingCacheKey(f models.ProductFilter) string {
	// Stable enough for cache keying; collisions only cost a DB read.
	data, _ := json.Marshal(f)
	return fmt.Sprintf("%slisting:%x", productCachePrefix, data)
}
