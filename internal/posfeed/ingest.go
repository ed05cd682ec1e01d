package posfeed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/preseasonhq/backoffice/internal/repository"
)

// feedBatchSize caps how many rows go to the repository in one upsert.
const feedBatchSize = 500

// IngestService lands point-of-sale monthly sales exports in the sales
// history table. Each export row is one UPC's unit total for one calendar
// month at one location.
type IngestService struct {
	feedService *Service
	salesRepo   repository.SalesRepository
	catalogRepo repository.CatalogRepository
}

func NewIngestService(feedService *Service, salesRepo repository.SalesRepository, catalogRepo repository.CatalogRepository) *IngestService {
	return &IngestService{
		feedService: feedService,
		salesRepo:   salesRepo,
		catalogRepo: catalogRepo,
	}
}

// IngestFile downloads one Drive file and lands its rows.
func (s *IngestService) IngestFile(ctx context.Context, fileID string) error {
	pr, pw := io.Pipe()
	go func() {
		err := s.feedService.DownloadFile(fileID, pw)
		pw.CloseWithError(err)
	}()

	return s.ingestReader(ctx, pr)
}

// IngestFolder pulls every CSV/XLSX export from a Drive folder into
// downloadDir and lands each one. Returns the local paths that were ingested.
func (s *IngestService) IngestFolder(ctx context.Context, folderID, downloadDir string) ([]string, error) {
	downloader := NewDownloader(s.feedService)
	paths, err := downloader.DownloadFolderCSV(ctx, DownloadOptions{
		FolderID:    folderID,
		DownloadDir: downloadDir,
	})
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := s.IngestLocalFile(ctx, path); err != nil {
			return paths, fmt.Errorf("failed to ingest %s: %w", path, err)
		}
	}
	return paths, nil
}

// IngestLocalFile lands a feed file that is already on disk, e.g. one the
// downloader pulled earlier.
func (s *IngestService) IngestLocalFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return s.ingestReader(ctx, f)
}

func (s *IngestService) ingestReader(ctx context.Context, r io.Reader) error {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	requiredCols := []string{"upc", "month", "quantity"}
	for _, col := range requiredCols {
		if _, ok := colMap[col]; !ok {
			return fmt.Errorf("missing required column: %s", col)
		}
	}

	locationIDs, err := s.locationIDsByCode(ctx)
	if err != nil {
		return err
	}

	var (
		batch   []repository.MonthlySalesRow
		total   int
		skipped int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		row, ok := s.parseRow(record, colMap, locationIDs)
		if !ok {
			skipped++
			continue
		}

		batch = append(batch, row)
		if len(batch) >= feedBatchSize {
			if err := s.salesRepo.UpsertMonthlySales(ctx, batch); err != nil {
				return fmt.Errorf("failed to land sales rows: %w", err)
			}
			total += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.salesRepo.UpsertMonthlySales(ctx, batch); err != nil {
			return fmt.Errorf("failed to land sales rows: %w", err)
		}
		total += len(batch)
	}

	log.Info().Int("rows", total).Int("skipped", skipped).Msg("Sales feed file ingested")
	return nil
}

func (s *IngestService) parseRow(record []string, colMap map[string]int, locationIDs map[string]int64) (repository.MonthlySalesRow, bool) {
	getValue := func(colName string) string {
		if idx, ok := colMap[colName]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	upc := getValue("upc")
	if upc == "" {
		return repository.MonthlySalesRow{}, false
	}

	month, err := parseMonth(getValue("month"))
	if err != nil {
		log.Warn().Str("upc", upc).Str("month", getValue("month")).Msg("Skipping feed row with bad month")
		return repository.MonthlySalesRow{}, false
	}

	// POS exports sometimes carry quantities as floats like "12.0".
	qtyFloat, err := strconv.ParseFloat(getValue("quantity"), 64)
	if err != nil {
		log.Warn().Str("upc", upc).Str("quantity", getValue("quantity")).Msg("Skipping feed row with bad quantity")
		return repository.MonthlySalesRow{}, false
	}

	row := repository.MonthlySalesRow{
		UPC:      upc,
		Month:    month,
		Quantity: int(qtyFloat),
	}

	// An empty location means a company-wide total. An unknown code is a
	// feed problem, so the row is dropped rather than landed ambiguously.
	if code := strings.ToUpper(getValue("location")); code != "" {
		id, ok := locationIDs[code]
		if !ok {
			log.Warn().Str("upc", upc).Str("location", code).Msg("Skipping feed row with unknown location")
			return repository.MonthlySalesRow{}, false
		}
		row.LocationID = &id
	}

	return row, true
}

func (s *IngestService) locationIDsByCode(ctx context.Context) (map[string]int64, error) {
	locations, err := s.catalogRepo.GetLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	ids := make(map[string]int64, len(locations))
	for _, loc := range locations {
		ids[strings.ToUpper(loc.Code)] = loc.ID
	}
	return ids, nil
}

func parseMonth(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006-01-02", "01/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized month %q", value)
}
