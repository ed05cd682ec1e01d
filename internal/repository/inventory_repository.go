// internal/repository/inventory_repository.go
package repository

import (
	"context"

	"github.com/preseasonhq/backoffice/internal/domain"
)

type InventoryRepository interface {
	// GetInventory returns one row per order line matching the filter,
	// joined with product UPC and stock on hand at the order's location.
	GetInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, domain.InventorySummary, error)
}
