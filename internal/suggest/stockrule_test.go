package suggest

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
)

func intp(v int) *int       { return &v }
func strp(s string) *string { return &s }

func testItem(id int64, qty int, cost float64, stock *int, upc *string) domain.InventoryItem {
	return domain.InventoryItem{
		ItemID:           id,
		OrderID:          1,
		ProductID:        id,
		OriginalQuantity: qty,
		UnitCost:         decimal.NewFromFloat(cost),
		StockOnHand:      stock,
		UPC:              upc,
	}
}

func TestStockRules_OverstockReductionExample(t *testing.T) {
	// One item at 12 months of coverage against a 6 month threshold; a 20%
	// cap on a $1000 order allows $200 of reduction = 20 units at $10.
	items := []domain.InventoryItem{
		testItem(1, 100, 10, intp(1200), strp("810001")),
	}
	velocity := domain.VelocityMap{
		"810001": {AvgMonthlySales: 100},
	}
	cfg := StockRuleConfig{HighMonths: 6, LowMonths: 1, TargetCoverage: 3, MaxOrderReductionPct: 20}

	got := StockRules(items, velocity, cfg)

	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d: %v", len(got), got)
	}
	if got[1] != 80 {
		t.Errorf("suggested quantity = %d, want 80", got[1])
	}
}

func TestStockRules_MostOverstockedReducedFirst(t *testing.T) {
	// Budget: 20% of (50*10 + 40*10 + 10*10) = $200 = 20 units at $10.
	// Item 2 has higher coverage, so it absorbs the reduction first and
	// drops to zero; the remaining budget applies to item 1.
	items := []domain.InventoryItem{
		testItem(1, 50, 10, intp(800), strp("A")),  // 8 months
		testItem(2, 10, 10, intp(2000), strp("B")), // 20 months
		testItem(3, 40, 10, intp(100), strp("C")),  // 1 month: in neither band
	}
	velocity := domain.VelocityMap{
		"A": {AvgMonthlySales: 100},
		"B": {AvgMonthlySales: 100},
		"C": {AvgMonthlySales: 100},
	}
	cfg := StockRuleConfig{HighMonths: 6, LowMonths: 0.5, TargetCoverage: 3, MaxOrderReductionPct: 20}

	got := StockRules(items, velocity, cfg)

	if got[2] != 0 {
		t.Errorf("most overstocked item suggested %d, want 0", got[2])
	}
	if got[1] != 40 {
		t.Errorf("second overstocked item suggested %d, want 40", got[1])
	}
	if _, ok := got[3]; ok {
		t.Errorf("mid-band item should have no suggestion, got %d", got[3])
	}
}

func TestStockRules_BudgetCapNeverExceeded(t *testing.T) {
	items := []domain.InventoryItem{
		testItem(1, 30, 12.50, intp(900), strp("A")),
		testItem(2, 25, 7.25, intp(1500), strp("B")),
		testItem(3, 60, 3.10, intp(700), strp("C")),
		testItem(4, 10, 45.00, intp(2400), strp("D")),
	}
	velocity := domain.VelocityMap{
		"A": {AvgMonthlySales: 90},
		"B": {AvgMonthlySales: 110},
		"C": {AvgMonthlySales: 80},
		"D": {AvgMonthlySales: 200},
	}

	for _, pct := range []float64{0, 5, 10, 33.3, 50, 100} {
		cfg := StockRuleConfig{HighMonths: 5, LowMonths: 1, TargetCoverage: 3, MaxOrderReductionPct: pct}
		got := StockRules(items, velocity, cfg)

		originalTotal := decimal.Zero
		reduction := decimal.Zero
		for _, item := range items {
			originalTotal = originalTotal.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.OriginalQuantity))))
			if suggested, ok := got[item.ItemID]; ok && suggested < item.OriginalQuantity {
				cut := decimal.NewFromInt(int64(item.OriginalQuantity - suggested))
				reduction = reduction.Add(item.UnitCost.Mul(cut))
			}
		}

		budget := originalTotal.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
		if reduction.GreaterThan(budget) {
			t.Errorf("pct=%v: reduction %s exceeds budget %s", pct, reduction, budget)
		}
	}
}

func TestStockRules_UnderstockTopUp(t *testing.T) {
	// 40 avg monthly sales, 3 month target, 30 on hand: need 90 more.
	items := []domain.InventoryItem{
		testItem(1, 12, 20, intp(30), strp("A")),
	}
	velocity := domain.VelocityMap{
		"A": {AvgMonthlySales: 40},
	}
	cfg := StockRuleConfig{HighMonths: 6, LowMonths: 2, TargetCoverage: 3, MaxOrderReductionPct: 10}

	got := StockRules(items, velocity, cfg)

	if got[1] != 12+90 {
		t.Errorf("understocked suggestion = %d, want %d", got[1], 12+90)
	}
}

func TestStockRules_UnderstockIgnoresBudget(t *testing.T) {
	// Zero reduction budget must not suppress understock top-ups.
	items := []domain.InventoryItem{
		testItem(1, 5, 10, intp(0), strp("A")),
	}
	velocity := domain.VelocityMap{
		"A": {AvgMonthlySales: 50},
	}
	cfg := StockRuleConfig{HighMonths: 6, LowMonths: 2, TargetCoverage: 3, MaxOrderReductionPct: 0}

	got := StockRules(items, velocity, cfg)

	if got[1] != 5+150 {
		t.Errorf("suggestion = %d, want %d", got[1], 5+150)
	}
}

func TestStockRules_ExclusionRules(t *testing.T) {
	tests := []struct {
		name string
		item domain.InventoryItem
		vel  domain.VelocityMap
	}{
		{
			name: "no_stock_on_hand",
			item: testItem(1, 10, 5, nil, strp("A")),
			vel:  domain.VelocityMap{"A": {AvgMonthlySales: 1}},
		},
		{
			name: "no_upc",
			item: testItem(1, 10, 5, intp(500), nil),
			vel:  domain.VelocityMap{"A": {AvgMonthlySales: 1}},
		},
		{
			name: "missing_velocity_record",
			item: testItem(1, 10, 5, intp(500), strp("A")),
			vel:  domain.VelocityMap{},
		},
		{
			name: "zero_velocity",
			item: testItem(1, 10, 5, intp(500), strp("A")),
			vel:  domain.VelocityMap{"A": {AvgMonthlySales: 0}},
		},
	}

	cfg := StockRuleConfig{HighMonths: 2, LowMonths: 1, TargetCoverage: 3, MaxOrderReductionPct: 50}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StockRules([]domain.InventoryItem{tt.item}, tt.vel, cfg)
			if len(got) != 0 {
				t.Errorf("expected empty suggestion map, got %v", got)
			}
		})
	}
}

func TestStockRules_SkipsUnreducibleItems(t *testing.T) {
	items := []domain.InventoryItem{
		testItem(1, 0, 10, intp(1000), strp("A")),  // nothing to reduce
		testItem(2, 10, 0, intp(1000), strp("B")),  // free items cannot absorb budget
		testItem(3, 10, 10, intp(1000), strp("C")), // reducible
	}
	velocity := domain.VelocityMap{
		"A": {AvgMonthlySales: 100},
		"B": {AvgMonthlySales: 100},
		"C": {AvgMonthlySales: 100},
	}
	cfg := StockRuleConfig{HighMonths: 6, LowMonths: 1, TargetCoverage: 3, MaxOrderReductionPct: 100}

	got := StockRules(items, velocity, cfg)

	if _, ok := got[1]; ok {
		t.Errorf("zero-quantity item should be skipped, got %d", got[1])
	}
	if _, ok := got[2]; ok {
		t.Errorf("zero-cost item should be skipped, got %d", got[2])
	}
	if got[3] != 0 {
		t.Errorf("reducible item suggested %d, want 0", got[3])
	}
}

func TestStockRules_Idempotent(t *testing.T) {
	items := []domain.InventoryItem{
		testItem(1, 40, 8, intp(1000), strp("A")),
		testItem(2, 15, 22, intp(10), strp("B")),
		testItem(3, 80, 4, intp(600), strp("C")),
	}
	velocity := domain.VelocityMap{
		"A": {AvgMonthlySales: 100},
		"B": {AvgMonthlySales: 40},
		"C": {AvgMonthlySales: 75},
	}
	cfg := DefaultStockRuleConfig()

	first := StockRules(items, velocity, cfg)
	second := StockRules(items, velocity, cfg)

	if len(first) != len(second) {
		t.Fatalf("runs differ in size: %v vs %v", first, second)
	}
	for id, qty := range first {
		if second[id] != qty {
			t.Errorf("item %d: first run %d, second run %d", id, qty, second[id])
		}
	}
}
