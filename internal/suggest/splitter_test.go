package suggest

import (
	"testing"
	"time"
)

func TestSplitQuantities_RoundRobin(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		numShips  int
		itemIndex int
		targets   []int
		want      []int
	}{
		{
			name:      "ten_units_three_ships_offset_zero",
			total:     10,
			numShips:  3,
			itemIndex: 0,
			want:      []int{4, 3, 3},
		},
		{
			name:      "ten_units_three_ships_offset_one",
			total:     10,
			numShips:  3,
			itemIndex: 1,
			want:      []int{3, 4, 3},
		},
		{
			name:      "ten_units_three_ships_offset_two",
			total:     10,
			numShips:  3,
			itemIndex: 2,
			want:      []int{3, 3, 4},
		},
		{
			name:      "offset_wraps_past_ship_count",
			total:     10,
			numShips:  3,
			itemIndex: 4,
			want:      []int{3, 4, 3},
		},
		{
			name:      "even_split_no_remainder",
			total:     9,
			numShips:  3,
			itemIndex: 0,
			want:      []int{3, 3, 3},
		},
		{
			name:      "single_ship_takes_everything",
			total:     7,
			numShips:  1,
			itemIndex: 5,
			want:      []int{7},
		},
		{
			name:      "fewer_units_than_ships",
			total:     2,
			numShips:  4,
			itemIndex: 0,
			want:      []int{1, 1, 0, 0},
		},
		{
			name:      "zero_quantity",
			total:     0,
			numShips:  3,
			itemIndex: 0,
			want:      []int{0, 0, 0},
		},
		{
			name:      "restricted_targets",
			total:     5,
			numShips:  4,
			itemIndex: 0,
			targets:   []int{1, 3},
			want:      []int{0, 3, 0, 2},
		},
		{
			name:      "restricted_targets_rotated_start",
			total:     5,
			numShips:  4,
			itemIndex: 1,
			targets:   []int{1, 3},
			want:      []int{0, 2, 0, 3},
		},
		{
			name:      "empty_targets_ship_nothing",
			total:     5,
			numShips:  3,
			itemIndex: 0,
			targets:   []int{},
			want:      []int{0, 0, 0},
		},
		{
			name:      "out_of_range_targets_dropped",
			total:     4,
			numShips:  2,
			itemIndex: 0,
			targets:   []int{0, 5, -1},
			want:      []int{4, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := ShipLine{ProductID: 1, TotalQuantity: tt.total, TargetShips: tt.targets}
			got := SplitQuantities(line, tt.itemIndex, tt.numShips)

			if len(got) != tt.numShips {
				t.Fatalf("expected %d splits, got %d", tt.numShips, len(got))
			}
			for i, want := range tt.want {
				if got[i] != want {
					t.Errorf("split[%d] = %d, want %d (full: %v)", i, got[i], want, got)
				}
			}
		})
	}
}

func TestSplitQuantities_ConservationAndFairness(t *testing.T) {
	for total := 0; total <= 50; total++ {
		for numShips := 1; numShips <= MaxShipments; numShips++ {
			for itemIndex := 0; itemIndex < numShips; itemIndex++ {
				line := ShipLine{TotalQuantity: total}
				splits := SplitQuantities(line, itemIndex, numShips)

				sum, min, max := 0, splits[0], splits[0]
				for _, s := range splits {
					sum += s
					if s < min {
						min = s
					}
					if s > max {
						max = s
					}
				}

				if sum != total {
					t.Fatalf("total=%d ships=%d idx=%d: splits %v sum to %d", total, numShips, itemIndex, splits, sum)
				}
				if max-min > 1 {
					t.Fatalf("total=%d ships=%d idx=%d: splits %v spread > 1", total, numShips, itemIndex, splits)
				}
			}
		}
	}
}

func TestSplitQuantities_Deterministic(t *testing.T) {
	line := ShipLine{TotalQuantity: 17, TargetShips: []int{0, 2, 3}}
	first := SplitQuantities(line, 2, 4)
	for i := 0; i < 10; i++ {
		again := SplitQuantities(line, 2, 4)
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d produced %v, first run produced %v", i, again, first)
			}
		}
	}
}

func TestShipDates_ClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		shipDay  int
		numShips int
		want     []string
	}{
		{
			name:     "plain_monthly_run",
			start:    time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
			shipDay:  15,
			numShips: 3,
			want:     []string{"2025-07-15", "2025-08-15", "2025-09-15"},
		},
		{
			name:     "day_31_clamped_to_shorter_months",
			start:    time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			shipDay:  31,
			numShips: 3,
			want:     []string{"2025-08-31", "2025-09-30", "2025-10-31"},
		},
		{
			name:     "february_leap_year",
			start:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			shipDay:  30,
			numShips: 2,
			want:     []string{"2024-01-30", "2024-02-29"},
		},
		{
			name:     "day_below_one_defaults_to_first",
			start:    time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
			shipDay:  0,
			numShips: 2,
			want:     []string{"2025-03-01", "2025-04-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := ShipDates(tt.start, tt.shipDay, tt.numShips)
			if len(dates) != tt.numShips {
				t.Fatalf("expected %d dates, got %d", tt.numShips, len(dates))
			}
			for i, want := range tt.want {
				if got := dates[i].Format("2006-01-02"); got != want {
					t.Errorf("date[%d] = %s, want %s", i, got, want)
				}
			}
		})
	}
}
