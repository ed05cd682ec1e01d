// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/preseasonhq/backoffice/internal/domain"
	"github.com/preseasonhq/backoffice/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

// GetVelocity averages each UPC's monthly sales over the trailing window.
// The divisor is the window length, not the number of months with sales, so
// a UPC that sold in only one of six months averages accordingly.
func (r *salesRepository) GetVelocity(ctx context.Context, filter domain.InventoryFilter, months int) (domain.VelocityMap, error) {
	if months <= 0 {
		months = 6
	}

	query := `
		SELECT s.upc, SUM(s.quantity)::float / $1 AS avg_monthly_sales
		FROM sales_history s
		JOIN products p ON p.upc = s.upc
		WHERE s.month >= date_trunc('month', NOW()) - ($1 || ' months')::interval
			AND s.month < date_trunc('month', NOW())
			AND p.season_id = $2
			AND ($3::bigint IS NULL OR p.brand_id = $3)
			AND ($4::bigint IS NULL OR s.location_id = $4)
		GROUP BY s.upc
	`

	rows, err := r.db.QueryContext(ctx, query, months, filter.SeasonID, filter.BrandID, filter.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch velocity: %w", err)
	}
	defer rows.Close()

	velocity := make(domain.VelocityMap)
	for rows.Next() {
		var upc string
		var avg float64
		if err := rows.Scan(&upc, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan velocity row: %w", err)
		}
		velocity[upc] = domain.VelocityRecord{AvgMonthlySales: avg}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading velocity rows: %w", err)
	}

	return velocity, nil
}

func (r *salesRepository) UpsertMonthlySales(ctx context.Context, salesRows []repository.MonthlySalesRow) error {
	if len(salesRows) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO sales_history (upc, location_id, month, quantity, created_at)
			VALUES ($1, $2, date_trunc('month', $3::date), $4, NOW())
			ON CONFLICT (upc, location_id, month)
			DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare sales upsert: %w", err)
		}
		defer stmt.Close()

		for _, row := range salesRows {
			if _, err := stmt.ExecContext(ctx, row.UPC, row.LocationID, row.Month, row.Quantity); err != nil {
				return fmt.Errorf("failed to upsert sales for %s: %w", row.UPC, err)
			}
		}

		return nil
	})
}
