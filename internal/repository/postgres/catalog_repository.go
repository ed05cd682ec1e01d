// internal/repository/postgres/catalog_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/preseasonhq/backoffice/internal/domain"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetBrands(ctx context.Context) ([]*domain.Brand, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM brands
		ORDER BY name
	`

	var brands []*domain.Brand
	if err := sqlx.SelectContext(ctx, r.db, &brands, query); err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	return brands, nil
}

func (r *catalogRepository) GetSeasons(ctx context.Context) ([]*domain.Season, error) {
	query := `
		SELECT id, name, status, created_at, updated_at
		FROM seasons
		ORDER BY created_at DESC
	`

	var seasons []*domain.Season
	if err := sqlx.SelectContext(ctx, r.db, &seasons, query); err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}

	return seasons, nil
}

func (r *catalogRepository) GetLocations(ctx context.Context) ([]*domain.Location, error) {
	query := `
		SELECT id, code, name, created_at, updated_at
		FROM locations
		ORDER BY code
	`

	var locations []*domain.Location
	if err := sqlx.SelectContext(ctx, r.db, &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}

func (r *catalogRepository) GetBrand(ctx context.Context, id int64) (*domain.Brand, error) {
	var brand domain.Brand
	err := sqlx.GetContext(ctx, r.db, &brand,
		`SELECT id, name, created_at, updated_at FROM brands WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand %d: %w", id, err)
	}
	return &brand, nil
}

func (r *catalogRepository) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	var location domain.Location
	err := sqlx.GetContext(ctx, r.db, &location,
		`SELECT id, code, name, created_at, updated_at FROM locations WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	return &location, nil
}

func (r *catalogRepository) GetSeasonByName(ctx context.Context, name string) (*domain.Season, error) {
	query := `
		SELECT id, name, status, created_at, updated_at
		FROM seasons
		WHERE name = $1
	`

	var season domain.Season
	err := sqlx.GetContext(ctx, r.db, &season, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season %q: %w", name, err)
	}

	return &season, nil
}

func (r *catalogRepository) UpsertSeason(ctx context.Context, name, status string) (*domain.Season, error) {
	query := `
		INSERT INTO seasons (name, status, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET updated_at = NOW()
		RETURNING id, name, status, created_at, updated_at
	`

	var season domain.Season
	if err := sqlx.GetContext(ctx, r.db, &season, query, name, status); err != nil {
		return nil, fmt.Errorf("failed to upsert season %q: %w", name, err)
	}

	return &season, nil
}

func (r *catalogRepository) SearchProducts(ctx context.Context, search string, limit, offset int, brandIDs []int64) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, upc, sku, name, COALESCE(color, '') AS color, COALESCE(size, '') AS size,
			COALESCE(wholesale_cost, 0) AS wholesale_cost, COALESCE(msrp, 0) AS msrp,
			brand_id, season_id, active, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR sku ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%' OR upc = $1)
			AND (cardinality($2::bigint[]) = 0 OR brand_id = ANY($2))
		ORDER BY sku ASC
		LIMIT $3 OFFSET $4
	`

	var products []*domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query, search, pq.Array(brandIDs), limit, offset); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) UpsertProductByUPC(ctx context.Context, product *domain.Product) (int64, error) {
	if product.UPC == nil || *product.UPC == "" {
		return 0, fmt.Errorf("product upsert requires a upc")
	}

	query := `
		INSERT INTO products (
			upc, sku, name, color, size, wholesale_cost, msrp,
			brand_id, season_id, active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, NOW())
		ON CONFLICT (upc)
		DO UPDATE SET updated_at = NOW()
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		product.UPC,
		product.SKU,
		product.Name,
		product.Color,
		product.Size,
		product.WholesaleCost,
		product.MSRP,
		product.BrandID,
		product.SeasonID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product %s: %w", *product.UPC, err)
	}

	return id, nil
}
