// internal/suggest/splitter.go
package suggest

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxShipments is the most ship windows a single order submission can span.
const MaxShipments = 6

// ShipLine is one product line to distribute across a ship plan. TargetShips
// optionally restricts which shipment indices the line may land on; nil or
// empty-after-filtering means every shipment is a target.
type ShipLine struct {
	ProductID     int64           `json:"product_id"`
	TotalQuantity int             `json:"total_quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TargetShips   []int           `json:"target_ships,omitempty"`
}

// SplitQuantities distributes line.TotalQuantity across numShips shipments
// one unit at a time, round-robin over the line's target shipments. The
// starting shipment rotates with itemIndex so the remainder units spread
// across shipments over many lines instead of always front-loading the first
// one.
//
// The returned slice always has numShips entries and sums to exactly
// TotalQuantity (zero when there are no valid targets), and no two targets
// ever differ by more than one unit.
func SplitQuantities(line ShipLine, itemIndex, numShips int) []int {
	splits := make([]int, numShips)
	if numShips <= 0 || line.TotalQuantity <= 0 {
		return splits
	}

	targets := line.TargetShips
	if targets == nil {
		targets = make([]int, numShips)
		for i := range targets {
			targets[i] = i
		}
	} else {
		valid := make([]int, 0, len(targets))
		for _, t := range targets {
			if t >= 0 && t < numShips {
				valid = append(valid, t)
			}
		}
		targets = valid
	}
	// An explicitly empty target set is a legal degenerate case: the line
	// ships nowhere.
	if len(targets) == 0 {
		return splits
	}

	startOffset := itemIndex % len(targets)
	for unit := 0; unit < line.TotalQuantity; unit++ {
		splits[targets[(startOffset+unit)%len(targets)]]++
	}
	return splits
}

// ShipDates generates numShips monthly ship dates starting at the month of
// start, each on shipDay clamped to the last day of its month.
func ShipDates(start time.Time, shipDay, numShips int) []time.Time {
	if shipDay < 1 {
		shipDay = 1
	}

	dates := make([]time.Time, 0, numShips)
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < numShips; i++ {
		month := first.AddDate(0, i, 0)
		day := shipDay
		if last := daysInMonth(month); day > last {
			day = last
		}
		dates = append(dates, month.AddDate(0, 0, day-1))
	}
	return dates
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1).Day()
}
