// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *inventoryRepository {
	return &inventoryRepository{db: db}
}

// GetInventory returns every order line in the filter scope, joined with its
// product's UPC and the stock on hand at the order's location. Stock is NULL
// for products with no stock snapshot, which excludes them from stock-rule
// classification downstream.
func (r *inventoryRepository) GetInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, domain.InventorySummary, error) {
	query := `
		SELECT
			i.id AS item_id,
			i.order_id,
			i.product_id,
			i.quantity AS original_quantity,
			i.adjusted_quantity,
			i.unit_cost,
			sl.quantity AS stock_on_hand,
			p.upc,
			p.name AS product_name,
			p.sku
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		JOIN products p ON p.id = i.product_id
		LEFT JOIN stock_levels sl
			ON sl.product_id = i.product_id AND sl.location_id = o.location_id
		WHERE o.season_id = $1
			AND ($2::bigint IS NULL OR o.brand_id = $2)
			AND ($3::bigint IS NULL OR o.location_id = $3)
			AND ($4 = '' OR o.ship_date = $4::date)
		ORDER BY i.id
	`

	var items []domain.InventoryItem
	err := sqlx.SelectContext(ctx, r.db, &items, query,
		filter.SeasonID, filter.BrandID, filter.LocationID, filter.ShipDate)
	if err != nil {
		return nil, domain.InventorySummary{}, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	summary := domain.InventorySummary{TotalCost: decimal.Zero}
	for _, item := range items {
		qty := item.EffectiveQuantity()
		summary.TotalItems++
		summary.TotalUnits += qty
		summary.TotalCost = summary.TotalCost.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(qty))))
	}

	return items, summary, nil
}
