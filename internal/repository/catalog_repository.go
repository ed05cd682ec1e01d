// internal/repository/catalog_repository.go
package repository

import (
	"context"

	"github.com/preseasonhq/backoffice/internal/domain"
)

type CatalogRepository interface {
	GetBrands(ctx context.Context) ([]*domain.Brand, error)
	GetSeasons(ctx context.Context) ([]*domain.Season, error)
	GetLocations(ctx context.Context) ([]*domain.Location, error)
	GetBrand(ctx context.Context, id int64) (*domain.Brand, error)
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	GetSeasonByName(ctx context.Context, name string) (*domain.Season, error)
	UpsertSeason(ctx context.Context, name, status string) (*domain.Season, error)
	SearchProducts(ctx context.Context, search string, limit, offset int, brandIDs []int64) ([]*domain.Product, error)
	UpsertProductByUPC(ctx context.Context, product *domain.Product) (int64, error)
}
