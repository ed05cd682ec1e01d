package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
)

func importSales(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	dataDir := c.String("data-dir")
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("failed to read sales dir %s: %w", dataDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dataDir, entry.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no CSV files found in %s", dataDir)
	}

	ctx := context.Background()
	locationIDs, err := loadLocationCodes(ctx, db)
	if err != nil {
		return err
	}

	workerCount := c.Int("workers")
	if workerCount < 1 {
		workerCount = 1
	}

	log.Printf("Importing %d sales files with %d workers", len(files), workerCount)

	jobChan := make(chan string, len(files))
	errChan := make(chan error, workerCount)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for file := range jobChan {
				rows, err := importSalesFile(ctx, db, file, locationIDs)
				if err != nil {
					log.Printf("Worker %d failed to import %s: %v", workerID, file, err)
					select {
					case errChan <- err:
					default:
					}
					continue
				}
				log.Printf("Worker %d imported %s (%d rows)", workerID, file, rows)
			}
		}(i)
	}

	// Enqueue jobs
	for _, file := range files {
		jobChan <- file
	}
	close(jobChan)

	// Wait for all workers
	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return err
	}

	log.Println("Sales history import completed successfully!")
	return nil
}

func importSalesFile(ctx context.Context, db *sql.DB, path string, locationIDs map[string]int64) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"upc", "month", "quantity"} {
		if _, ok := colMap[col]; !ok {
			return 0, fmt.Errorf("missing required column %s in %s", col, path)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_history (upc, location_id, month, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (upc, location_id, month)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare sales statement: %w", err)
	}
	defer stmt.Close()

	rowCount := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read CSV record: %w", err)
		}

		getValue := func(col string) string {
			if idx, ok := colMap[col]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		upc := getValue("upc")
		if upc == "" {
			continue
		}

		month, err := parseSalesMonth(getValue("month"))
		if err != nil {
			log.Printf("Skipping row with bad month in %s: %v", path, err)
			continue
		}

		qtyFloat, err := strconv.ParseFloat(getValue("quantity"), 64)
		if err != nil {
			log.Printf("Skipping row with bad quantity in %s: %q", path, getValue("quantity"))
			continue
		}

		var locationID sql.NullInt64
		if code := strings.ToUpper(getValue("location")); code != "" {
			id, ok := locationIDs[code]
			if !ok {
				log.Printf("Skipping row with unknown location %q in %s", code, path)
				continue
			}
			locationID = sql.NullInt64{Int64: id, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, upc, locationID, month, int(qtyFloat)); err != nil {
			return 0, fmt.Errorf("failed to upsert sales row for UPC %s: %w", upc, err)
		}
		rowCount++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return rowCount, nil
}

func parseSalesMonth(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006-01-02", "01/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized month %q", value)
}

func loadLocationCodes(ctx context.Context, db *sql.DB) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx, "SELECT UPPER(code), id FROM locations")
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var (
			code string
			id   int64
		)
		if err := rows.Scan(&code, &id); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		result[code] = id
	}
	return result, rows.Err()
}
