// internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
	"github.com/preseasonhq/backoffice/internal/repository"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `
	id, order_number, season_id, brand_id, location_id, ship_date,
	order_type, status, COALESCE(notes, '') AS notes, current_total,
	finalized_at, created_at, updated_at
`

// CreateOrder inserts the order, deduplicating its number with a counter
// suffix when the base number is already taken (JUL25-PRA-SLC, then
// JUL25-PRA-SLC-2, and so on).
func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var taken int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM orders WHERE order_number LIKE $1 || '%'`,
			order.OrderNumber,
		).Scan(&taken)
		if err != nil {
			return fmt.Errorf("failed to count order numbers: %w", err)
		}
		if taken > 0 {
			order.OrderNumber = fmt.Sprintf("%s-%d", order.OrderNumber, taken+1)
		}

		query := `
			INSERT INTO orders (
				order_number, season_id, brand_id, location_id, ship_date,
				order_type, status, notes, current_total, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW())
			RETURNING id, created_at, updated_at
		`
		err = tx.QueryRowContext(ctx, query,
			order.OrderNumber,
			order.SeasonID,
			order.BrandID,
			order.LocationID,
			order.ShipDate,
			order.OrderType,
			order.Status,
			order.Notes,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		return nil
	})
}

func (r *orderRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order domain.Order
	if err := sqlx.GetContext(ctx, r.db, &order, query, id); err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}

	return &order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::bigint IS NULL OR season_id = $1)
			AND ($2::bigint IS NULL OR brand_id = $2)
			AND ($3::bigint IS NULL OR location_id = $3)
			AND ($4 = '' OR status = $4)
		ORDER BY ship_date, order_number
	`

	var orders []*domain.Order
	err := sqlx.SelectContext(ctx, r.db, &orders, query,
		filter.SeasonID, filter.BrandID, filter.LocationID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) AddItem(ctx context.Context, orderID int64, item *domain.OrderItem) error {
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	item.OrderID = orderID
	item.LineTotal = item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO order_items (
				order_id, product_id, quantity, unit_cost, line_total, is_addition, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id, created_at, updated_at
		`
		err := tx.QueryRowContext(ctx, query,
			orderID,
			item.ProductID,
			item.Quantity,
			item.UnitCost,
			item.LineTotal,
			item.IsAddition,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		return recomputeTotalTx(ctx, tx, orderID)
	})
}

// AdjustItem writes (or clears, when nil) the override quantity and keeps the
// line total in sync with the effective quantity.
func (r *orderRepository) AdjustItem(ctx context.Context, orderID, itemID int64, adjustedQuantity *int) error {
	if adjustedQuantity != nil && *adjustedQuantity < 0 {
		zero := 0
		adjustedQuantity = &zero
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE order_items
			SET adjusted_quantity = $1,
				line_total = unit_cost * COALESCE($1, quantity),
				updated_at = NOW()
			WHERE id = $2 AND order_id = $3
		`
		result, err := tx.ExecContext(ctx, query, adjustedQuantity, itemID, orderID)
		if err != nil {
			return fmt.Errorf("failed to adjust item %d: %w", itemID, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return fmt.Errorf("order %d has no item %d", orderID, itemID)
		}

		return recomputeTotalTx(ctx, tx, orderID)
	})
}

func (r *orderRepository) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM order_items WHERE id = $1 AND order_id = $2`, itemID, orderID)
		if err != nil {
			return fmt.Errorf("failed to delete item %d: %w", itemID, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return fmt.Errorf("order %d has no item %d", orderID, itemID)
		}

		return recomputeTotalTx(ctx, tx, orderID)
	})
}

func (r *orderRepository) GetItems(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, adjusted_quantity,
			unit_cost, line_total, is_addition, created_at, updated_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	var items []*domain.OrderItem
	if err := sqlx.SelectContext(ctx, r.db, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list items for order %d: %w", orderID, err)
	}

	return items, nil
}

// FinalizeOrder stamps finalized_at. Calling it again on an already
// finalized order just refreshes the stamp.
func (r *orderRepository) FinalizeOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $1, finalized_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING ` + orderColumns + `
	`

	var order domain.Order
	if err := sqlx.GetContext(ctx, r.db, &order, query, domain.OrderStatusFinalized, orderID); err != nil {
		return nil, fmt.Errorf("failed to finalize order %d: %w", orderID, err)
	}

	return &order, nil
}

func (r *orderRepository) RecomputeTotal(ctx context.Context, orderID int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return recomputeTotalTx(ctx, tx, orderID)
	})
}

func recomputeTotalTx(ctx context.Context, tx *sql.Tx, orderID int64) error {
	query := `
		UPDATE orders o
		SET current_total = (
			SELECT COALESCE(SUM(line_total), 0)
			FROM order_items
			WHERE order_id = o.id
		), updated_at = NOW()
		WHERE o.id = $1
	`
	if _, err := tx.ExecContext(ctx, query, orderID); err != nil {
		return fmt.Errorf("failed to recompute total for order %d: %w", orderID, err)
	}
	return nil
}
