package export

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
	"github.com/preseasonhq/backoffice/internal/repository"
	"github.com/preseasonhq/backoffice/internal/storage"
)

type fakeOrderRepo struct {
	orders []*domain.Order
	items  map[int64][]*domain.OrderItem
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error { return nil }
func (f *fakeOrderRepo) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	return f.orders, nil
}
func (f *fakeOrderRepo) AddItem(ctx context.Context, orderID int64, item *domain.OrderItem) error {
	return nil
}
func (f *fakeOrderRepo) AdjustItem(ctx context.Context, orderID, itemID int64, adjustedQuantity *int) error {
	return nil
}
func (f *fakeOrderRepo) DeleteItem(ctx context.Context, orderID, itemID int64) error { return nil }
func (f *fakeOrderRepo) GetItems(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	return f.items[orderID], nil
}
func (f *fakeOrderRepo) FinalizeOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) RecomputeTotal(ctx context.Context, orderID int64) error { return nil }

type fakeCatalogRepo struct{}

func (f *fakeCatalogRepo) GetBrands(ctx context.Context) ([]*domain.Brand, error) {
	return []*domain.Brand{{ID: 1, Name: "Prana"}}, nil
}
func (f *fakeCatalogRepo) GetSeasons(ctx context.Context) ([]*domain.Season, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) GetLocations(ctx context.Context) ([]*domain.Location, error) {
	return []*domain.Location{{ID: 2, Code: "SLC", Name: "Salt Lake City"}}, nil
}
func (f *fakeCatalogRepo) GetBrand(ctx context.Context, id int64) (*domain.Brand, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) GetSeasonByName(ctx context.Context, name string) (*domain.Season, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) UpsertSeason(ctx context.Context, name, status string) (*domain.Season, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) SearchProducts(ctx context.Context, search string, limit, offset int, brandIDs []int64) ([]*domain.Product, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) UpsertProductByUPC(ctx context.Context, product *domain.Product) (int64, error) {
	return 0, nil
}

type fakeObjectStorage struct {
	uploads map[string][]byte
}

func (f *fakeObjectStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}
func (f *fakeObjectStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	return nil
}
func (f *fakeObjectStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return nil
}

func TestOrderBookCSV(t *testing.T) {
	adjusted := 8
	orderRepo := &fakeOrderRepo{
		orders: []*domain.Order{
			{
				ID:          10,
				OrderNumber: "JUL25-PRA-SLC",
				BrandID:     1,
				LocationID:  2,
				ShipDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
				Status:      domain.OrderStatusDraft,
			},
		},
		items: map[int64][]*domain.OrderItem{
			10: {
				{ID: 1, OrderID: 10, ProductID: 101, Quantity: 12, UnitCost: decimal.NewFromFloat(24.50), LineTotal: decimal.NewFromFloat(294.00)},
				{ID: 2, OrderID: 10, ProductID: 102, Quantity: 10, AdjustedQuantity: &adjusted, UnitCost: decimal.NewFromFloat(10.00), LineTotal: decimal.NewFromFloat(80.00)},
			},
		},
	}
	objStore := &fakeObjectStorage{}
	svc := NewReportService(orderRepo, &fakeCatalogRepo{}, objStore, t.TempDir())

	path, err := svc.OrderBookCSV(context.Background(), repository.OrderFilter{})
	if err != nil {
		t.Fatalf("OrderBookCSV returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	first := records[1]
	if first[0] != "JUL25-PRA-SLC" || first[1] != "Prana" || first[2] != "SLC" {
		t.Errorf("unexpected first row prefix: %v", first[:3])
	}
	if first[3] != "2025-07-01" {
		t.Errorf("expected ship date 2025-07-01, got %s", first[3])
	}
	if first[7] != "" {
		t.Errorf("expected empty adjusted quantity, got %q", first[7])
	}

	second := records[2]
	if second[7] != "8" {
		t.Errorf("expected adjusted quantity 8, got %q", second[7])
	}
	if second[9] != "80.00" {
		t.Errorf("expected line total 80.00, got %q", second[9])
	}

	if len(objStore.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(objStore.uploads))
	}
	for key, payload := range objStore.uploads {
		if !strings.HasPrefix(key, "exports/order_book_") {
			t.Errorf("unexpected upload key %q", key)
		}
		if string(payload) != string(data) {
			t.Error("uploaded bytes differ from local file")
		}
	}
}

func TestOrderBookCSVNoStorage(t *testing.T) {
	orderRepo := &fakeOrderRepo{}
	svc := NewReportService(orderRepo, &fakeCatalogRepo{}, nil, t.TempDir())

	path, err := svc.OrderBookCSV(context.Background(), repository.OrderFilter{})
	if err != nil {
		t.Fatalf("OrderBookCSV returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Order Number,") {
		t.Errorf("expected header row, got %q", string(data))
	}
}
