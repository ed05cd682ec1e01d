// internal/repository/sales_repository.go
package repository

import (
	"context"
	"time"

	"github.com/preseasonhq/backoffice/internal/domain"
)

// MonthlySalesRow is one UPC's sales total for one calendar month at one
// location, as delivered by the point-of-sale export feed.
type MonthlySalesRow struct {
	UPC        string
	LocationID *int64
	Month      time.Time
	Quantity   int
}

// SalesRepository is the boundary to the historical point-of-sale data. The
// warehouse-side aggregation that produces sales_history rows lives outside
// this service; here we only read trailing averages and land feed rows.
type SalesRepository interface {
	// GetVelocity returns trailing average monthly sales per UPC over the
	// last months calendar months, scoped to the filter's brand and
	// optionally its location.
	GetVelocity(ctx context.Context, filter domain.InventoryFilter, months int) (domain.VelocityMap, error)

	UpsertMonthlySales(ctx context.Context, rows []MonthlySalesRow) error
}
