package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Import order books and sales history into the preseason ordering database",
		Commands: []*cli.Command{
			{
				Name:  "orders",
				Usage: "Import an order-book CSV into a season",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Order-book CSV file exported from the buying spreadsheet",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "season",
						Usage:    "Season name, e.g. 'Spring 2026'",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "brand-aliases",
						Usage: "Optional CSV of spreadsheet brand name to catalog brand name",
					},
					&cli.StringFlag{
						Name:  "location-aliases",
						Usage: "Optional CSV of spreadsheet location name to location code",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: importOrders,
			},
			{
				Name:  "sales",
				Usage: "Import monthly sales history CSV files",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing sales history CSV files",
						Value:   "./data/seeds/sales_history",
						EnvVars: []string{"SALES_HISTORY_DIR"},
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files to process concurrently",
						Value: 4,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: importSales,
			},
			{
				Name:   "download",
				Usage:  "Download seed CSV files from object storage",
				Flags:  downloadFlags(),
				Action: downloadSeedFiles,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
