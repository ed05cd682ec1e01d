// internal/suggest/transforms.go
//
// Linear transforms applied on top of whatever suggestion state exists. All
// three merge into the current map rather than replacing it: the base
// quantity for each item is its pending suggestion when one exists, else its
// effective quantity.
package suggest

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
)

// ScaleToBudget scales every item's base quantity by a uniform factor so the
// order total lands on the target dollar budget. A budget of zero or less, or
// a current total of zero, is a no-op.
func ScaleToBudget(items []domain.InventoryItem, suggestions SuggestionMap, budget decimal.Decimal) SuggestionMap {
	out := make(SuggestionMap)
	if budget.LessThanOrEqual(decimal.Zero) {
		return out
	}

	currentTotal := decimal.Zero
	for _, item := range items {
		base := decimal.NewFromInt(int64(baseQuantity(item, suggestions)))
		currentTotal = currentTotal.Add(base.Mul(item.UnitCost))
	}
	if currentTotal.IsZero() {
		return out
	}

	factor := budget.Div(currentTotal)
	for _, item := range items {
		base := decimal.NewFromInt(int64(baseQuantity(item, suggestions)))
		scaled := base.Mul(factor).Round(0).IntPart()
		if scaled < 0 {
			scaled = 0
		}
		out[item.ItemID] = int(scaled)
	}
	return out
}

// BatchMode selects what BatchAdjust does with each selected item's base
// quantity.
type BatchMode string

const (
	BatchIncreasePct BatchMode = "increase_pct"
	BatchDecreasePct BatchMode = "decrease_pct"
	BatchSetValue    BatchMode = "set_value"
)

// ValidBatchMode reports whether mode is one of the three batch operations.
func ValidBatchMode(mode BatchMode) bool {
	switch mode {
	case BatchIncreasePct, BatchDecreasePct, BatchSetValue:
		return true
	}
	return false
}

// BatchAdjust applies mode with value to the selected item ids only.
// Unselected items are untouched.
func BatchAdjust(items []domain.InventoryItem, suggestions SuggestionMap, selected []int64, mode BatchMode, value float64) SuggestionMap {
	selection := make(map[int64]bool, len(selected))
	for _, id := range selected {
		selection[id] = true
	}

	out := make(SuggestionMap)
	for _, item := range items {
		if !selection[item.ItemID] {
			continue
		}
		base := float64(baseQuantity(item, suggestions))

		var next int
		switch mode {
		case BatchIncreasePct:
			next = int(math.Round(base * (1 + value/100)))
		case BatchDecreasePct:
			next = int(math.Round(base * (1 - value/100)))
		case BatchSetValue:
			next = int(math.Round(value))
		default:
			continue
		}
		if next < 0 {
			next = 0
		}
		out[item.ItemID] = next
	}
	return out
}

// ClampRange clamps every item's base quantity into [min, max]. A nil max
// means no upper bound. Only items whose clamped value differs from the base
// are written, so untouched items keep their sparse no-entry state.
func ClampRange(items []domain.InventoryItem, suggestions SuggestionMap, min int, max *int) SuggestionMap {
	out := make(SuggestionMap)
	for _, item := range items {
		base := baseQuantity(item, suggestions)
		clamped := base
		if clamped < min {
			clamped = min
		}
		if max != nil && clamped > *max {
			clamped = *max
		}
		if clamped != base {
			out[item.ItemID] = clamped
		}
	}
	return out
}
