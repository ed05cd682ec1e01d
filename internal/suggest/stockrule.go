// internal/suggest/stockrule.go
package suggest

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
)

// StockRuleConfig tunes the overstock/understock suggestion engine. All
// fields are user-supplied per run; nothing is persisted.
type StockRuleConfig struct {
	HighMonths           float64 `json:"high_months"`
	LowMonths            float64 `json:"low_months"`
	TargetCoverage       float64 `json:"target_coverage"`
	MaxOrderReductionPct float64 `json:"max_order_reduction_pct"`
}

// DefaultStockRuleConfig matches the thresholds the order builder starts with.
func DefaultStockRuleConfig() StockRuleConfig {
	return StockRuleConfig{
		HighMonths:           6,
		LowMonths:            2,
		TargetCoverage:       3,
		MaxOrderReductionPct: 20,
	}
}

type classifiedItem struct {
	item     domain.InventoryItem
	coverage float64
	velocity float64
}

// StockRules classifies every item as overstocked or understocked from months
// of coverage (stock on hand over trailing average monthly sales) and builds
// a fresh suggestion map:
//
//   - overstocked items are reduced, most-covered first, under a total dollar
//     cap of MaxOrderReductionPct percent of the original order total;
//   - understocked items are topped up to TargetCoverage months, with no
//     budget constraint;
//   - items between the bands, or with no stock figure, no UPC, or no sales
//     velocity, are left out of the map entirely.
//
// The reduction budget is always computed against original quantities, never
// against a previous suggestion round, so re-running with the same inputs
// yields the same output. The result replaces the store's map; it is never
// merged.
func StockRules(items []domain.InventoryItem, velocity domain.VelocityMap, cfg StockRuleConfig) SuggestionMap {
	out := make(SuggestionMap)

	var overstocked, understocked []classifiedItem
	for _, item := range items {
		if item.StockOnHand == nil || item.UPC == nil {
			continue
		}
		rec, ok := velocity[*item.UPC]
		if !ok || rec.AvgMonthlySales <= 0 {
			continue
		}

		coverage := float64(*item.StockOnHand) / rec.AvgMonthlySales
		ci := classifiedItem{item: item, coverage: coverage, velocity: rec.AvgMonthlySales}
		switch {
		case coverage >= cfg.HighMonths:
			overstocked = append(overstocked, ci)
		case coverage <= cfg.LowMonths:
			understocked = append(understocked, ci)
		}
	}

	// Most overstocked first; stable so ties keep input order.
	sort.SliceStable(overstocked, func(i, j int) bool {
		return overstocked[i].coverage > overstocked[j].coverage
	})

	// The cap is a share of the original total over ALL items, not just the
	// overstocked ones.
	originalTotal := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.OriginalQuantity))
		originalTotal = originalTotal.Add(qty.Mul(item.UnitCost))
	}
	pct := decimal.NewFromFloat(cfg.MaxOrderReductionPct).Div(decimal.NewFromInt(100))
	remaining := originalTotal.Mul(pct)

	for _, ci := range overstocked {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		item := ci.item
		if item.OriginalQuantity <= 0 || item.UnitCost.LessThanOrEqual(decimal.Zero) {
			continue
		}

		affordable := remaining.Div(item.UnitCost).Floor().IntPart()
		reduce := int64(item.OriginalQuantity)
		if affordable < reduce {
			reduce = affordable
		}
		if reduce <= 0 {
			continue
		}

		out[item.ItemID] = item.OriginalQuantity - int(reduce)
		remaining = remaining.Sub(item.UnitCost.Mul(decimal.NewFromInt(reduce)))
	}

	// Understock top-ups are independent of the reduction budget.
	for _, ci := range understocked {
		needed := ci.velocity*cfg.TargetCoverage - float64(*ci.item.StockOnHand)
		units := int(math.Round(needed))
		if units < 0 {
			units = 0
		}
		out[ci.item.ItemID] = ci.item.OriginalQuantity + units
	}

	return out
}
