// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand represents a wholesale brand
type Brand struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Season represents an ordering season (e.g. "Fall 2025")
type Season struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents a receiving location
type Location struct {
	ID        int64     `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents a catalog product, keyed by UPC when one exists
type Product struct {
	ID            int64           `json:"id" db:"id"`
	UPC           *string         `json:"upc" db:"upc"`
	SKU           string          `json:"sku" db:"sku"`
	Name          string          `json:"name" db:"name"`
	Color         string          `json:"color" db:"color"`
	Size          string          `json:"size" db:"size"`
	WholesaleCost decimal.Decimal `json:"wholesale_cost" db:"wholesale_cost"`
	MSRP          decimal.Decimal `json:"msrp" db:"msrp"`
	BrandID       int64           `json:"brand_id" db:"brand_id"`
	SeasonID      int64           `json:"season_id" db:"season_id"`
	Active        bool            `json:"active" db:"active"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Order represents a preseason order for one brand/location/ship date
type Order struct {
	ID           int64           `json:"id" db:"id"`
	OrderNumber  string          `json:"order_number" db:"order_number"`
	SeasonID     int64           `json:"season_id" db:"season_id"`
	BrandID      int64           `json:"brand_id" db:"brand_id"`
	LocationID   int64           `json:"location_id" db:"location_id"`
	ShipDate     time.Time       `json:"ship_date" db:"ship_date"`
	OrderType    string          `json:"order_type" db:"order_type"`
	Status       string          `json:"status" db:"status"`
	Notes        string          `json:"notes" db:"notes"`
	CurrentTotal decimal.Decimal `json:"current_total" db:"current_total"`
	FinalizedAt  *time.Time      `json:"finalized_at" db:"finalized_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderItem represents a single line on an order. AdjustedQuantity is an
// override on top of Quantity; nil means the original quantity stands.
type OrderItem struct {
	ID               int64           `json:"id" db:"id"`
	OrderID          int64           `json:"order_id" db:"order_id"`
	ProductID        int64           `json:"product_id" db:"product_id"`
	Quantity         int             `json:"quantity" db:"quantity"`
	AdjustedQuantity *int            `json:"adjusted_quantity" db:"adjusted_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total" db:"line_total"`
	IsAddition       bool            `json:"is_addition" db:"is_addition"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// EffectiveQuantity returns the adjusted quantity when set, else the original.
func (i OrderItem) EffectiveQuantity() int {
	if i.AdjustedQuantity != nil {
		return *i.AdjustedQuantity
	}
	return i.Quantity
}
