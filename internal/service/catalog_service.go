package service

import (
	"context"

	"github.com/preseasonhq/backoffice/internal/domain"
	"github.com/preseasonhq/backoffice/internal/repository"
)

// CatalogService serves the read-only reference data the order builder
// filters on.
type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) GetBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.repo.GetBrands(ctx)
}

func (s *CatalogService) GetSeasons(ctx context.Context) ([]*domain.Season, error) {
	return s.repo.GetSeasons(ctx)
}

func (s *CatalogService) GetLocations(ctx context.Context) ([]*domain.Location, error) {
	return s.repo.GetLocations(ctx)
}

// SearchProducts returns products matching the optional search term with
// pagination, optionally restricted to brands.
func (s *CatalogService) SearchProducts(ctx context.Context, search string, limit, offset int, brandIDs []int64) ([]*domain.Product, error) {
	return s.repo.SearchProducts(ctx, search, limit, offset, brandIDs)
}
