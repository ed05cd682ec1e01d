package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
	"github.com/preseasonhq/backoffice/internal/repository"
	"github.com/preseasonhq/backoffice/internal/suggest"
)

type fakeOrderRepo struct {
	orders    []*domain.Order
	items     map[int64][]*domain.OrderItem
	failAfter int // fail CreateOrder once this many orders exist; 0 disables
	nextID    int64
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	if f.failAfter > 0 && len(f.orders) >= f.failAfter {
		return fmt.Errorf("connection reset")
	}
	f.nextID++
	order.ID = f.nextID
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderRepo) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("order %d not found", id)
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderRepo) AddItem(ctx context.Context, orderID int64, item *domain.OrderItem) error {
	if f.items == nil {
		f.items = make(map[int64][]*domain.OrderItem)
	}
	item.OrderID = orderID
	f.items[orderID] = append(f.items[orderID], item)
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
	return f.GetOrder(ctx, orderID)
}
func (f *fakeOrderRepo) RecomputeTotal(ctx context.Context, orderID int64) error { return nil }

type fakeCatalogRepo struct{}

func (f *fakeCatalogRepo) GetBrands(ctx context.Context) ([]*domain.Brand, error)   { return nil, nil }
func (f *fakeCatalogRepo) GetSeasons(ctx context.Context) ([]*domain.Season, error) { return nil, nil }
func (f *fakeCatalogRepo) GetLocations(ctx context.Context) ([]*domain.Location, error) {
	return nil, nil
}
func (f *fakeCatalogRepo) GetBrand(ctx context.Context, id int64) (*domain.Brand, error) {
	return &domain.Brand{ID: id, Name: "Prana"}, nil
}
func (f *fakeCatalogRepo) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	return &domain.Location{ID: id, Code: "SLC"}, nil
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

func TestBuildOrderNumber(t *testing.T) {
	july := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		brand    string
		location string
		ship     time.Time
		want     string
	}{
		{"basic", "Prana", "SLC", july, "JUL25-PRA-SLC"},
		{"brand with spaces", "La Sportiva", "SLC", july, "JUL25-LAS-SLC"},
		{"short brand kept whole", "DMM", "OGD", july, "JUL25-DMM-OGD"},
		{"two letter brand", "Px", "OGD", july, "JUL25-PX-OGD"},
		{"empty brand", "", "SLC", july, "JUL25-UNK-SLC"},
		{"lowercase location", "Prana", "soma", july, "JUL25-PRA-SOMA"},
		{"december", "Prana", "SLC", time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC), "DEC26-PRA-SLC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildOrderNumber(tt.brand, tt.location, tt.ship); got != tt.want {
				t.Errorf("BuildOrderNumber(%q, %q) = %q, want %q", tt.brand, tt.location, got, tt.want)
			}
		})
	}
}

func TestCreateOrderDefaults(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, &fakeCatalogRepo{})

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		SeasonID:   1,
		BrandID:    2,
		LocationID: 3,
		ShipDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}

	if order.OrderNumber != "JUL25-PRA-SLC" {
		t.Errorf("unexpected order number %q", order.OrderNumber)
	}
	if order.Status != domain.OrderStatusDraft {
		t.Errorf("expected draft status, got %q", order.Status)
	}
	if order.OrderType != domain.OrderTypePreseason {
		t.Errorf("expected preseason type, got %q", order.OrderType)
	}
}

func TestCreatePlannedSplitsAcrossShipments(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, &fakeCatalogRepo{})

	orders, err := svc.CreatePlanned(context.Background(), PlannedOrderInput{
		SeasonID:   1,
		BrandID:    2,
		LocationID: 3,
		NumShips:   3,
		StartMonth: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		ShipDay:    15,
		Lines: []suggest.ShipLine{
			{ProductID: 101, TotalQuantity: 10, UnitPrice: decimal.NewFromInt(20)},
		},
	})
	if err != nil {
		t.Fatalf("CreatePlanned returned error: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}

	// 10 units over 3 shipments: the earlier shipments get the remainder.
	wantQty := []int{4, 3, 3}
	total := 0
	for i, order := range orders {
		items := repo.items[order.ID]
		if len(items) != 1 {
			t.Fatalf("order %d: expected 1 item, got %d", i, len(items))
		}
		if items[0].Quantity != wantQty[i] {
			t.Errorf("order %d: quantity = %d, want %d", i, items[0].Quantity, wantQty[i])
		}
		total += items[0].Quantity

		wantShip := time.Date(2025, time.Month(7+i), 15, 0, 0, 0, 0, time.UTC)
		if !order.ShipDate.Equal(wantShip) {
			t.Errorf("order %d: ship date = %v, want %v", i, order.ShipDate, wantShip)
		}
	}
	if total != 10 {
		t.Errorf("split lost units: total %d, want 10", total)
	}
}

func TestCreatePlannedSkipsEmptyShipments(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, &fakeCatalogRepo{})

	orders, err := svc.CreatePlanned(context.Background(), PlannedOrderInput{
		SeasonID:   1,
		BrandID:    2,
		LocationID: 3,
		NumShips:   3,
		StartMonth: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		ShipDay:    1,
		Lines: []suggest.ShipLine{
			{ProductID: 101, TotalQuantity: 2, UnitPrice: decimal.NewFromInt(5)},
		},
	})
	if err != nil {
		t.Fatalf("CreatePlanned returned error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for 2 units over 3 ships, got %d", len(orders))
	}
}

func TestCreatePlannedBestEffort(t *testing.T) {
	repo := &fakeOrderRepo{failAfter: 1}
	svc := NewOrderService(repo, &fakeCatalogRepo{})

	orders, err := svc.CreatePlanned(context.Background(), PlannedOrderInput{
		SeasonID:   1,
		BrandID:    2,
		LocationID: 3,
		NumShips:   2,
		StartMonth: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		ShipDay:    1,
		Lines: []suggest.ShipLine{
			{ProductID: 101, TotalQuantity: 8, UnitPrice: decimal.NewFromInt(5)},
		},
	})
	if err == nil {
		t.Fatal("expected error from second shipment")
	}
	if len(orders) != 1 {
		t.Fatalf("expected the first order to survive, got %d", len(orders))
	}
	if len(repo.orders) != 1 {
		t.Fatalf("expected 1 persisted order, got %d", len(repo.orders))
	}
}

func TestCreatePlannedValidation(t *testing.T) {
	svc := NewOrderService(&fakeOrderRepo{}, &fakeCatalogRepo{})
	base := PlannedOrderInput{
		SeasonID:   1,
		BrandID:    2,
		LocationID: 3,
		StartMonth: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		ShipDay:    1,
	}

	for _, ships := range []int{0, -1, suggest.MaxShipments + 1} {
		input := base
		input.NumShips = ships
		if _, err := svc.CreatePlanned(context.Background(), input); err == nil {
			t.Errorf("expected error for %d shipments", ships)
		}
	}

	input := base
	input.NumShips = 3
	input.ShipDates = []time.Time{time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)}
	if _, err := svc.CreatePlanned(context.Background(), input); err == nil {
		t.Error("expected error for mismatched ship dates")
	}
}

func TestAddItemClampsNegativeQuantity(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, &fakeCatalogRepo{})

	item, err := svc.AddItem(context.Background(), 1, 101, -5, decimal.NewFromInt(10), false)
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if item.Quantity != 0 {
		t.Errorf("expected negative quantity clamped to 0, got %d", item.Quantity)
	}
}
