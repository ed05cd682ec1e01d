package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
	"github.com/preseasonhq/backoffice/internal/repository"
	"github.com/preseasonhq/backoffice/internal/suggest"
)

// OrderService wraps order persistence with order-number generation and the
// multi-shipment creation flow.
type OrderService struct {
	orders  repository.OrderRepository
	catalog repository.CatalogRepository
}

func NewOrderService(orders repository.OrderRepository, catalog repository.CatalogRepository) *OrderService {
	return &OrderService{orders: orders, catalog: catalog}
}

// CreateOrderInput describes a single order to create.
type CreateOrderInput struct {
	SeasonID   int64     `json:"season_id"`
	BrandID    int64     `json:"brand_id"`
	LocationID int64     `json:"location_id"`
	ShipDate   time.Time `json:"ship_date"`
	Notes      string    `json:"notes"`
}

// PlannedOrderInput describes an order submission split across up to six
// ship windows. When ShipDates is empty, dates are generated monthly from
// StartMonth on ShipDay (clamped to month end).
type PlannedOrderInput struct {
	SeasonID   int64              `json:"season_id"`
	BrandID    int64              `json:"brand_id"`
	LocationID int64              `json:"location_id"`
	Notes      string             `json:"notes"`
	NumShips   int                `json:"num_ships"`
	StartMonth time.Time          `json:"start_month"`
	ShipDay    int                `json:"ship_day"`
	ShipDates  []time.Time        `json:"ship_dates,omitempty"`
	Lines      []suggest.ShipLine `json:"lines"`
}

func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	number, err := s.orderNumber(ctx, input.BrandID, input.LocationID, input.ShipDate)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderNumber:  number,
		SeasonID:     input.SeasonID,
		BrandID:      input.BrandID,
		LocationID:   input.LocationID,
		ShipDate:     input.ShipDate,
		OrderType:    domain.OrderTypePreseason,
		Status:       domain.OrderStatusDraft,
		Notes:        input.Notes,
		CurrentTotal: decimal.Zero,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// CreatePlanned distributes each line's quantity across the plan's ship
// windows and creates one order per window that receives any units.
//
// Creation is best-effort sequential: orders and their items are written one
// at a time, and the first failure stops the run. Orders already created
// stay created; the caller gets them back along with the error and must
// retry or clean up by hand.
func (s *OrderService) CreatePlanned(ctx context.Context, input PlannedOrderInput) ([]*domain.Order, error) {
	if input.NumShips < 1 || input.NumShips > suggest.MaxShipments {
		return nil, fmt.Errorf("number of shipments must be between 1 and %d, got %d", suggest.MaxShipments, input.NumShips)
	}

	dates := input.ShipDates
	if len(dates) == 0 {
		dates = suggest.ShipDates(input.StartMonth, input.ShipDay, input.NumShips)
	}
	if len(dates) != input.NumShips {
		return nil, fmt.Errorf("expected %d ship dates, got %d", input.NumShips, len(dates))
	}

	// Split every line up front; shipment k's order only exists if some
	// line puts units on it.
	splits := make([][]int, len(input.Lines))
	for i, line := range input.Lines {
		if line.TotalQuantity < 0 {
			line.TotalQuantity = 0
		}
		splits[i] = suggest.SplitQuantities(line, i, input.NumShips)
	}

	var created []*domain.Order
	for ship := 0; ship < input.NumShips; ship++ {
		var shipLines []int
		for i := range input.Lines {
			if splits[i][ship] > 0 {
				shipLines = append(shipLines, i)
			}
		}
		if len(shipLines) == 0 {
			continue
		}

		order, err := s.CreateOrder(ctx, CreateOrderInput{
			SeasonID:   input.SeasonID,
			BrandID:    input.BrandID,
			LocationID: input.LocationID,
			ShipDate:   dates[ship],
			Notes:      input.Notes,
		})
		if err != nil {
			return created, fmt.Errorf("failed creating order for shipment %d of %d: %w", ship+1, input.NumShips, err)
		}
		created = append(created, order)

		for _, i := range shipLines {
			item := &domain.OrderItem{
				ProductID: input.Lines[i].ProductID,
				Quantity:  splits[i][ship],
				UnitCost:  input.Lines[i].UnitPrice,
			}
			if err := s.orders.AddItem(ctx, order.ID, item); err != nil {
				return created, fmt.Errorf("failed adding items to order %s: %w", order.OrderNumber, err)
			}
		}

		log.Info().
			Str("order_number", order.OrderNumber).
			Time("ship_date", dates[ship]).
			Int("lines", len(shipLines)).
			Msg("created shipment order")
	}

	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	return s.orders.ListOrders(ctx, filter)
}

func (s *OrderService) GetItems(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	return s.orders.GetItems(ctx, orderID)
}

// AddItem appends a line to an existing order. Negative quantities clamp to
// zero rather than erroring.
func (s *OrderService) AddItem(ctx context.Context, orderID int64, productID int64, quantity int, unitCost decimal.Decimal, isAddition bool) (*domain.OrderItem, error) {
	if quantity < 0 {
		quantity = 0
	}

	item := &domain.OrderItem{
		ProductID:  productID,
		Quantity:   quantity,
		UnitCost:   unitCost,
		IsAddition: isAddition,
	}
	if err := s.orders.AddItem(ctx, orderID, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AdjustItem sets or clears (nil) the override quantity on a line.
func (s *OrderService) AdjustItem(ctx context.Context, orderID, itemID int64, adjustedQuantity *int) error {
	return s.orders.AdjustItem(ctx, orderID, itemID, adjustedQuantity)
}

func (s *OrderService) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	return s.orders.DeleteItem(ctx, orderID, itemID)
}

func (s *OrderService) FinalizeOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orders.FinalizeOrder(ctx, orderID)
}

// orderNumber builds the base order number: ship month and 2-digit year,
// first three letters of the brand, location code. The repository appends a
// counter when the base is taken.
func (s *OrderService) orderNumber(ctx context.Context, brandID, locationID int64, shipDate time.Time) (string, error) {
	brand, err := s.catalog.GetBrand(ctx, brandID)
	if err != nil {
		return "", err
	}
	location, err := s.catalog.GetLocation(ctx, locationID)
	if err != nil {
		return "", err
	}

	return BuildOrderNumber(brand.Name, location.Code, shipDate), nil
}

// BuildOrderNumber formats JUL25-PRA-SLC style order numbers.
func BuildOrderNumber(brandName, locationCode string, shipDate time.Time) string {
	monthAbbr := strings.ToUpper(shipDate.Format("Jan"))
	year := shipDate.Format("06")

	brandCode := strings.ToUpper(strings.ReplaceAll(brandName, " ", ""))
	if len(brandCode) > 3 {
		brandCode = brandCode[:3]
	}
	if brandCode == "" {
		brandCode = "UNK"
	}

	return fmt.Sprintf("%s%s-%s-%s", monthAbbr, year, brandCode, strings.ToUpper(locationCode))
}
