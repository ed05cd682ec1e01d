package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// orderBookRow is one cleaned line of the buying spreadsheet export.
type orderBookRow struct {
	UPC           string
	Brand         string
	Location      string
	Description   string
	ProductNumber string
	Color         string
	Size          string
	Wholesale     float64
	Retail        float64
	ShipMonth     time.Time
	Quantity      int
}

// orderGroup keys one order: the rows for one brand at one location in one
// ship month all land on the same order.
type orderGroup struct {
	brand    string
	location string
	ship     time.Time
}

func importOrders(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	brandAliases, err := loadAliasFile(c.String("brand-aliases"))
	if err != nil {
		return fmt.Errorf("failed to load brand aliases: %w", err)
	}
	locationAliases, err := loadAliasFile(c.String("location-aliases"))
	if err != nil {
		return fmt.Errorf("failed to load location aliases: %w", err)
	}

	rows, skipped, err := readOrderBook(c.String("file"))
	if err != nil {
		return err
	}
	log.Printf("Loaded %d rows (%d skipped) from %s", len(rows), skipped, c.String("file"))

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Get or create the season
	seasonName := c.String("season")
	var seasonID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO seasons (name, status) VALUES ($1, 'ordering')
		ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
		RETURNING id
	`, seasonName).Scan(&seasonID)
	if err != nil {
		return fmt.Errorf("failed to upsert season %s: %w", seasonName, err)
	}
	log.Printf("Season %q -> ID %d", seasonName, seasonID)

	// 2. Map brands and locations
	brandIDs, err := loadNameIDMap(ctx, tx, "SELECT LOWER(name), id FROM brands")
	if err != nil {
		return fmt.Errorf("failed to load brands: %w", err)
	}
	locationIDs, err := loadNameIDMap(ctx, tx, "SELECT UPPER(code), id FROM locations")
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}

	resolveBrand := func(name string) (int64, bool) {
		if alias, ok := brandAliases[strings.ToLower(name)]; ok {
			name = alias
		}
		id, ok := brandIDs[strings.ToLower(name)]
		return id, ok
	}
	resolveLocation := func(name string) (int64, string, bool) {
		code := name
		if alias, ok := locationAliases[strings.ToLower(name)]; ok {
			code = alias
		}
		code = strings.ToUpper(code)
		id, ok := locationIDs[code]
		return id, code, ok
	}

	// 3. Upsert products by UPC
	productStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (
			upc, name, sku, color, size, wholesale_cost, msrp,
			brand_id, season_id, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
		ON CONFLICT (upc) DO UPDATE SET upc = EXCLUDED.upc
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare product statement: %w", err)
	}
	defer productStmt.Close()

	productIDs := make(map[string]int64)
	productsSeen := 0
	for _, row := range rows {
		if _, ok := productIDs[row.UPC]; ok {
			continue
		}
		brandID, ok := resolveBrand(row.Brand)
		if !ok {
			continue
		}
		var productID int64
		if err := productStmt.QueryRowContext(ctx,
			row.UPC, row.Description, row.ProductNumber, row.Color, row.Size,
			row.Wholesale, row.Retail, brandID, seasonID,
		).Scan(&productID); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", row.UPC, err)
		}
		productIDs[row.UPC] = productID
		productsSeen++
	}
	log.Printf("Mapped %d products", productsSeen)

	// 4. Create one order per brand/location/ship-month group
	orderIDs := make(map[orderGroup]int64)
	ordersCreated := 0
	for _, row := range rows {
		group := orderGroup{brand: row.Brand, location: row.Location, ship: row.ShipMonth}
		if _, ok := orderIDs[group]; ok {
			continue
		}
		brandID, ok := resolveBrand(row.Brand)
		if !ok {
			log.Printf("Skipping group: unknown brand %q", row.Brand)
			continue
		}
		locationID, locCode, ok := resolveLocation(row.Location)
		if !ok {
			log.Printf("Skipping group: unknown location %q", row.Location)
			continue
		}

		orderNumber, err := nextOrderNumber(ctx, tx, row.Brand, locCode, row.ShipMonth)
		if err != nil {
			return err
		}

		var orderID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO orders (
				order_number, season_id, brand_id, location_id,
				ship_date, order_type, status
			) VALUES ($1, $2, $3, $4, $5, 'preseason', 'draft')
			RETURNING id
		`, orderNumber, seasonID, brandID, locationID, row.ShipMonth).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("failed to create order %s: %w", orderNumber, err)
		}
		orderIDs[group] = orderID
		ordersCreated++
	}
	log.Printf("Created %d orders", ordersCreated)

	// 5. Add order items
	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (
			order_id, product_id, quantity, unit_cost, line_total
		) VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare item statement: %w", err)
	}
	defer itemStmt.Close()

	itemsAdded := 0
	itemsSkipped := 0
	for _, row := range rows {
		productID, okProduct := productIDs[row.UPC]
		orderID, okOrder := orderIDs[orderGroup{brand: row.Brand, location: row.Location, ship: row.ShipMonth}]
		if !okProduct || !okOrder {
			itemsSkipped++
			continue
		}
		lineTotal := row.Wholesale * float64(row.Quantity)
		if _, err := itemStmt.ExecContext(ctx, orderID, productID, row.Quantity, row.Wholesale, lineTotal); err != nil {
			return fmt.Errorf("failed to insert item for UPC %s: %w", row.UPC, err)
		}
		itemsAdded++
	}
	log.Printf("Added %d order items (%d skipped)", itemsAdded, itemsSkipped)

	// 6. Roll order totals up from their items
	if _, err := tx.ExecContext(ctx, `
		UPDATE orders o
		SET current_total = (
			SELECT COALESCE(SUM(line_total), 0)
			FROM order_items WHERE order_id = o.id
		)
		WHERE season_id = $1
	`, seasonID); err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Order book import completed successfully!")
	return nil
}

// nextOrderNumber builds MONYY-BRA-LOC and suffixes a counter when the base
// is already taken, e.g. JUL25-PRA-SLC-2.
func nextOrderNumber(ctx context.Context, tx *sql.Tx, brandName, locationCode string, shipDate time.Time) (string, error) {
	brandCode := strings.ToUpper(strings.ReplaceAll(brandName, " ", ""))
	if len(brandCode) >= 3 {
		brandCode = brandCode[:3]
	} else if brandCode == "" {
		brandCode = "UNK"
	}

	base := fmt.Sprintf("%s%s-%s-%s",
		strings.ToUpper(shipDate.Format("Jan")), shipDate.Format("06"), brandCode, locationCode)

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE order_number LIKE $1", base+"%",
	).Scan(&count); err != nil {
		return "", fmt.Errorf("failed to count orders for %s: %w", base, err)
	}
	if count > 0 {
		return fmt.Sprintf("%s-%d", base, count+1), nil
	}
	return base, nil
}

func readOrderBook(path string) ([]orderBookRow, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"upc", "brand", "gym", "ship month", "quantity"} {
		if _, ok := colMap[col]; !ok {
			return nil, 0, fmt.Errorf("missing required column: %s", col)
		}
	}

	var (
		rows    []orderBookRow
		skipped int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read CSV record: %w", err)
		}

		getValue := func(col string) string {
			if idx, ok := colMap[col]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		getFloat := func(col string) float64 {
			f, _ := strconv.ParseFloat(strings.ReplaceAll(getValue(col), ",", ""), 64)
			return f
		}

		upc := getValue("upc")
		brand := getValue("brand")
		gym := getValue("gym")
		qtyStr := getValue("quantity")
		if upc == "" || brand == "" || gym == "" || qtyStr == "" {
			skipped++
			continue
		}

		qtyFloat, err := strconv.ParseFloat(qtyStr, 64)
		if err != nil {
			skipped++
			continue
		}

		shipMonth, err := parseShipMonth(getValue("ship month"))
		if err != nil {
			skipped++
			continue
		}

		rows = append(rows, orderBookRow{
			UPC:           upc,
			Brand:         brand,
			Location:      gym,
			Description:   getValue("description"),
			ProductNumber: getValue("product number"),
			Color:         getValue("color"),
			Size:          getValue("size"),
			Wholesale:     getFloat("wholesale"),
			Retail:        getFloat("retail"),
			ShipMonth:     shipMonth,
			Quantity:      int(qtyFloat),
		})
	}

	return rows, skipped, nil
}

// parseShipMonth reads the spreadsheet's compact ship month, month*100+year,
// e.g. 126 is January 2026 and 1225 is December 2025.
func parseShipMonth(value string) (time.Time, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ship month %q", value)
	}
	month := v / 100
	year := 2000 + v%100
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid ship month %q", value)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

func loadAliasFile(path string) (map[string]string, error) {
	aliases := make(map[string]string)
	if path == "" {
		return aliases, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 {
			continue
		}
		aliases[strings.ToLower(strings.TrimSpace(record[0]))] = strings.TrimSpace(record[1])
	}
	return aliases, nil
}

func loadNameIDMap(ctx context.Context, tx *sql.Tx, query string) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var (
			name string
			id   int64
		)
		if err := rows.Scan(&name, &id); err != nil {
			return nil, err
		}
		result[name] = id
	}
	return result, rows.Err()
}
