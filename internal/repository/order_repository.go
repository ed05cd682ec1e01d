// internal/repository/order_repository.go
package repository

import (
	"context"

	"github.com/preseasonhq/backoffice/internal/domain"
)

// OrderFilter scopes order listings.
type OrderFilter struct {
	SeasonID   *int64
	BrandID    *int64
	LocationID *int64
	Status     string
}

type OrderRepository interface {
	// CreateOrder persists order and fills in its generated id and
	// deduplicated order number.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)

	AddItem(ctx context.Context, orderID int64, item *domain.OrderItem) error
	AdjustItem(ctx context.Context, orderID, itemID int64, adjustedQuantity *int) error
	DeleteItem(ctx context.Context, orderID, itemID int64) error
	GetItems(ctx context.Context, orderID int64) ([]*domain.OrderItem, error)

	// FinalizeOrder stamps finalized_at. Re-finalizing re-stamps.
	FinalizeOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	RecomputeTotal(ctx context.Context, orderID int64) error
}
