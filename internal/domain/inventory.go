// internal/domain/inventory.go
package domain

import "github.com/shopspring/decimal"

// InventoryItem is the order-building view of a single order line: the line
// itself joined with its product's UPC and the current stock on hand at the
// order's location.
type InventoryItem struct {
	ItemID           int64           `json:"item_id" db:"item_id"`
	OrderID          int64           `json:"order_id" db:"order_id"`
	ProductID        int64           `json:"product_id" db:"product_id"`
	OriginalQuantity int             `json:"original_quantity" db:"original_quantity"`
	AdjustedQuantity *int            `json:"adjusted_quantity" db:"adjusted_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	StockOnHand      *int            `json:"stock_on_hand" db:"stock_on_hand"`
	UPC              *string         `json:"upc" db:"upc"`
	ProductName      string          `json:"product_name" db:"product_name"`
	SKU              string          `json:"sku" db:"sku"`
}

// EffectiveQuantity returns the adjusted quantity when set, else the original.
func (it InventoryItem) EffectiveQuantity() int {
	if it.AdjustedQuantity != nil {
		return *it.AdjustedQuantity
	}
	return it.OriginalQuantity
}

// InventorySummary aggregates an inventory fetch
type InventorySummary struct {
	TotalItems int             `json:"total_items"`
	TotalUnits int             `json:"total_units"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// InventoryFilter scopes an inventory or velocity fetch. Changing any field
// invalidates previously computed suggestions.
type InventoryFilter struct {
	SeasonID   int64  `json:"season_id"`
	BrandID    *int64 `json:"brand_id"`
	LocationID *int64 `json:"location_id"`
	ShipDate   string `json:"ship_date"`
}

// VelocityRecord holds trailing average monthly sales for one UPC
type VelocityRecord struct {
	AvgMonthlySales float64 `json:"avg_monthly_sales" db:"avg_monthly_sales"`
}

// VelocityMap maps UPC to its trailing sales velocity
type VelocityMap map[string]VelocityRecord
