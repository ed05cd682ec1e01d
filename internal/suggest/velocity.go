// internal/suggest/velocity.go
package suggest

import (
	"math"

	"github.com/preseasonhq/backoffice/internal/domain"
)

// CoverageTargets are the selectable flat coverage horizons, in months.
var CoverageTargets = []int{3, 6, 9, 12}

// ValidCoverageTarget reports whether months is a selectable horizon.
func ValidCoverageTarget(months int) bool {
	for _, m := range CoverageTargets {
		if m == months {
			return true
		}
	}
	return false
}

// VelocityTargets suggests, for every item with a known velocity, the
// quantity needed to reach coverageMonths months of sales on top of current
// stock. Items without velocity data are skipped, not zeroed. Unlike the
// stock-rule engine, the result merges into the existing suggestion map.
func VelocityTargets(items []domain.InventoryItem, velocity domain.VelocityMap, coverageMonths int) SuggestionMap {
	out := make(SuggestionMap)
	for _, item := range items {
		if item.UPC == nil {
			continue
		}
		rec, ok := velocity[*item.UPC]
		if !ok {
			continue
		}

		stock := 0
		if item.StockOnHand != nil {
			stock = *item.StockOnHand
		}

		suggested := int(math.Round(rec.AvgMonthlySales*float64(coverageMonths) - float64(stock)))
		if suggested < 0 {
			suggested = 0
		}
		out[item.ItemID] = suggested
	}
	return out
}
