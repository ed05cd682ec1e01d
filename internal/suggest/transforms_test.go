package suggest

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
)

func TestScaleToBudget_HitsTargetWithinRounding(t *testing.T) {
	items := []domain.InventoryItem{
		testItem(1, 10, 12.00, nil, nil),
		testItem(2, 20, 7.50, nil, nil),
		testItem(3, 5, 33.00, nil, nil),
	}
	// current total = 120 + 150 + 165 = 435
	budget := decimal.NewFromInt(300)

	got := ScaleToBudget(items, SuggestionMap{}, budget)

	if len(got) != len(items) {
		t.Fatalf("expected a suggestion for every item, got %d of %d", len(got), len(items))
	}

	newTotal := decimal.Zero
	maxCost := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(got[item.ItemID]))
		newTotal = newTotal.Add(qty.Mul(item.UnitCost))
		if item.UnitCost.GreaterThan(maxCost) {
			maxCost = item.UnitCost
		}
	}

	// Each item can be off by at most half a unit of its cost.
	tolerance := maxCost.Mul(decimal.NewFromFloat(0.5)).Mul(decimal.NewFromInt(int64(len(items))))
	if newTotal.Sub(budget).Abs().GreaterThan(tolerance) {
		t.Errorf("scaled total %s not within %s of budget %s", newTotal, tolerance, budget)
	}
}

func TestScaleToBudget_UsesPendingSuggestionsAsBase(t *testing.T) {
	items := []domain.InventoryItem{
		testItem(1, 10, 10.00, nil, nil),
	}
	// Pending suggestion of 50 makes the current total $500; doubling the
	// budget must double the suggested 50, not the original 10.
	got := ScaleToBudget(items, SuggestionMap{1: 50}, decimal.NewFromInt(1000))

	if got[1] != 100 {
		t.Errorf("scaled quantity = %d, want 100", got[1])
	}
}

func TestScaleToBudget_NoOps(t *testing.T) {
	tests := []struct {
		name   string
		items  []domain.InventoryItem
		budget decimal.Decimal
	}{
		{
			name:   "zero_budget",
			items:  []domain.InventoryItem{testItem(1, 10, 5, nil, nil)},
			budget: decimal.Zero,
		},
		{
			name:   "negative_budget",
			items:  []domain.InventoryItem{testItem(1, 10, 5, nil, nil)},
			budget: decimal.NewFromInt(-100),
		},
		{
			name:   "zero_current_total",
			items:  []domain.InventoryItem{testItem(1, 0, 5, nil, nil)},
			budget: decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleToBudget(tt.items, SuggestionMap{}, tt.budget)
			if len(got) != 0 {
				t.Errorf("expected no-op, got %v", got)
			}
		})
	}
}

func TestBatchAdjust_Modes(t *testing.T) {
	items := []domain.InventoryItem{
		testItem(1, 10, 5, nil, nil),
		testItem(2, 20, 5, nil, nil),
		testItem(3, 30, 5, nil, nil),
	}

	tests := []struct {
		name        string
		suggestions SuggestionMap
		selected    []int64
		mode        BatchMode
		value       float64
		want        SuggestionMap
	}{
		{
			name:     "increase_pct",
			selected: []int64{1, 2},
			mode:     BatchIncreasePct,
			value:    25,
			want:     SuggestionMap{1: 13, 2: 25},
		},
		{
			name:     "decrease_pct",
			selected: []int64{2},
			mode:     BatchDecreasePct,
			value:    50,
			want:     SuggestionMap{2: 10},
		},
		{
			name:     "decrease_past_zero_clamps",
			selected: []int64{1},
			mode:     BatchDecreasePct,
			value:    150,
			want:     SuggestionMap{1: 0},
		},
		{
			name:     "set_value",
			selected: []int64{1, 3},
			mode:     BatchSetValue,
			value:    7.6,
			want:     SuggestionMap{1: 8, 3: 8},
		},
		{
			name:     "set_negative_value_clamps",
			selected: []int64{1},
			mode:     BatchSetValue,
			value:    -4,
			want:     SuggestionMap{1: 0},
		},
		{
			name:        "base_comes_from_pending_suggestion",
			suggestions: SuggestionMap{1: 100},
			selected:    []int64{1},
			mode:        BatchIncreasePct,
			value:       10,
			want:        SuggestionMap{1: 110},
		},
		{
			name:     "unknown_ids_ignored",
			selected: []int64{99},
			mode:     BatchSetValue,
			value:    5,
			want:     SuggestionMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := tt.suggestions
			if base == nil {
				base = SuggestionMap{}
			}
			got := BatchAdjust(items, base, tt.selected, tt.mode, tt.value)

			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for id, qty := range tt.want {
				if got[id] != qty {
					t.Errorf("item %d: got %d, want %d", id, got[id], qty)
				}
			}
		})
	}
}

func TestClampRange(t *testing.T) {
	items := []domain.InventoryItem{
		testItem(1, 2, 5, nil, nil),
		testItem(2, 15, 5, nil, nil),
		testItem(3, 50, 5, nil, nil),
	}

	t.Run("writes_only_changed_items", func(t *testing.T) {
		got := ClampRange(items, SuggestionMap{}, 5, intp(30))

		if got[1] != 5 {
			t.Errorf("below-min item clamped to %d, want 5", got[1])
		}
		if _, ok := got[2]; ok {
			t.Errorf("in-range item should be untouched, got %d", got[2])
		}
		if got[3] != 30 {
			t.Errorf("above-max item clamped to %d, want 30", got[3])
		}
	})

	t.Run("nil_max_means_unbounded", func(t *testing.T) {
		got := ClampRange(items, SuggestionMap{}, 10, nil)

		if got[1] != 10 {
			t.Errorf("below-min item clamped to %d, want 10", got[1])
		}
		if _, ok := got[3]; ok {
			t.Errorf("no upper bound, item 3 should be untouched, got %d", got[3])
		}
	})

	t.Run("clamps_pending_suggestion_not_original", func(t *testing.T) {
		got := ClampRange(items, SuggestionMap{2: 100}, 0, intp(40))

		if got[2] != 40 {
			t.Errorf("suggested 100 clamped to %d, want 40", got[2])
		}
	})

	t.Run("all_quantities_in_range_after_merge", func(t *testing.T) {
		min, max := 5, 30
		pending := SuggestionMap{1: 1, 3: 99}
		delta := ClampRange(items, pending, min, &max)
		for id, qty := range delta {
			pending[id] = qty
		}

		for _, item := range items {
			qty := baseQuantity(item, pending)
			if qty < min || qty > max {
				t.Errorf("item %d quantity %d outside [%d,%d]", item.ItemID, qty, min, max)
			}
		}
	})
}
