package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/preseasonhq/backoffice/internal/repository"
	"github.com/preseasonhq/backoffice/internal/storage"
)

// ReportService builds order-book exports. Files are always written under
// exportDir; when objectStorage is non-nil the same bytes are uploaded too.
type ReportService struct {
	orderRepo     repository.OrderRepository
	catalogRepo   repository.CatalogRepository
	objectStorage storage.ObjectStorage
	exportDir     string
}

func NewReportService(orderRepo repository.OrderRepository, catalogRepo repository.CatalogRepository, objectStorage storage.ObjectStorage, exportDir string) *ReportService {
	return &ReportService{
		orderRepo:     orderRepo,
		catalogRepo:   catalogRepo,
		objectStorage: objectStorage,
		exportDir:     exportDir,
	}
}

// OrderBookCSV writes one row per order line, preceded by no summary rows, and
// returns the path of the file it wrote.
func (s *ReportService) OrderBookCSV(ctx context.Context, filter repository.OrderFilter) (string, error) {
	orders, err := s.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("failed to list orders: %w", err)
	}

	brandNames, locationCodes, err := s.lookupNames(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Order Number", "Brand", "Location", "Ship Date", "Status", "Product ID", "Quantity", "Adjusted Quantity", "Unit Cost", "Line Total"}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, order := range orders {
		items, err := s.orderRepo.GetItems(ctx, order.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load items for order %d: %w", order.ID, err)
		}
		for _, item := range items {
			adjusted := ""
			if item.AdjustedQuantity != nil {
				adjusted = fmt.Sprintf("%d", *item.AdjustedQuantity)
			}
			record := []string{
				order.OrderNumber,
				brandNames[order.BrandID],
				locationCodes[order.LocationID],
				order.ShipDate.Format("2006-01-02"),
				order.Status,
				fmt.Sprintf("%d", item.ProductID),
				fmt.Sprintf("%d", item.Quantity),
				adjusted,
				item.UnitCost.StringFixed(2),
				item.LineTotal.StringFixed(2),
			}
			if err := writer.Write(record); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("order_book_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.exportDir, filename)
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if s.objectStorage != nil {
		key := "exports/" + filename
		if err := s.objectStorage.UploadObject(ctx, key, buf.Bytes()); err != nil {
			// Local file exists; the upload is best effort.
			log.Warn().Err(err).Str("key", key).Msg("Order book upload failed")
		} else {
			log.Info().Str("key", key).Msg("Order book uploaded")
		}
	}

	return path, nil
}

func (s *ReportService) lookupNames(ctx context.Context) (map[int64]string, map[int64]string, error) {
	brands, err := s.catalogRepo.GetBrands(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list brands: %w", err)
	}
	locations, err := s.catalogRepo.GetLocations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list locations: %w", err)
	}

	brandNames := make(map[int64]string, len(brands))
	for _, b := range brands {
		brandNames[b.ID] = b.Name
	}
	locationCodes := make(map[int64]string, len(locations))
	for _, l := range locations {
		locationCodes[l.ID] = l.Code
	}
	return brandNames, locationCodes, nil
}
