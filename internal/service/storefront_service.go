package service

import (
	"context"

	"go.uber.org/zap"

	"havenrp-web/internal/domain"
	"havenrp-web/pkg/redis"
)

// StorefrontService layers caching over the Tebex storefront reads. Store
// contents change on the order of minutes, so the TTLs mirror the edge
// caching the site used before.
type StorefrontService struct {
	store  StorefrontAPI
	cache  *CacheService
	logger *zap.Logger
}

// NewStorefrontService creates a new storefront service
func NewStorefrontService(store StorefrontAPI, cache *CacheService, logger *zap.Logger) *StorefrontService {
	return &StorefrontService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// GetWebstore returns the webstore information document (10m cache)
func (s *StorefrontService) GetWebstore(ctx context.Context) (*domain.TebexWebstore, error) {
	key := s.cache.Keys().KeyStoreInformation()

	var webstore domain.TebexWebstore
	if s.cache.GetJSON(ctx, key, &webstore) {
		return &webstore, nil
	}

	fetched, err := s.store.GetWebstore(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLStoreInformation)
	return fetched, nil
}

// ListCategories returns all storefront categories (5m cache)
func (s *StorefrontService) ListCategories(ctx context.Context) ([]domain.TebexCategory, error) {
	key := s.cache.Keys().KeyStoreCategories()

	var categories []domain.TebexCategory
	if s.cache.GetJSON(ctx, key, &categories) {
		return categories, nil
	}

	fetched, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLStoreCategories)
	return fetched, nil
}

// GetCategory returns one category with its packages (5m cache)
func (s *StorefrontService) GetCategory(ctx context.Context, categoryID int64) (*domain.TebexCategory, error) {
	key := s.cache.Keys().KeyStoreCategory(categoryID)

	var category domain.TebexCategory
	if s.cache.GetJSON(ctx, key, &category) {
		return &category, nil
	}

	fetched, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLStoreCategories)
	return fetched, nil
}

// GetPackage returns one purchasable package (5m cache)
func (s *StorefrontService) GetPackage(ctx context.Context, packageID int64) (*domain.TebexPackage, error) {
	key := s.cache.Keys().KeyStorePackage(packageID)

	var pkg domain.TebexPackage
	if s.cache.GetJSON(ctx, key, &pkg) {
		return &pkg, nil
	}

	fetched, err := s.store.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSONAsync(key, fetched, redis.TTLStorePackage)
	return fetched, nil
}
