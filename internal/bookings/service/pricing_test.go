package service

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInclusiveDaySpan(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single day", date(2026, 3, 10), date(2026, 3, 10), 1},
		{"two days", date(2026, 3, 10), date(2026, 3, 11), 2},
		{"three days", date(2026, 3, 10), date(2026, 3, 12), 3},
		{"across month end", date(2026, 1, 30), date(2026, 2, 2), 4},
		{"across year end", date(2025, 12, 30), date(2026, 1, 2), 4},
		{"leap february", date(2028, 2, 28), date(2028, 3, 1), 3},
		{"full month", date(2026, 4, 1), date(2026, 4, 30), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inclusiveDaySpan(tt.start, tt.end); got != tt.want {
				t.Errorf("inclusiveDaySpan(%v, %v) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

// The span depends on calendar dates only; clock time within the day must
// not change the count.
func TestInclusiveDaySpan_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 12, 0, 15, 0, 0, time.UTC)

	if got := inclusiveDaySpan(start, end); got != 3 {
		t.Errorf("expected span 3, got %d", got)
	}
}

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		name        string
		pricePerDay float64
		start       time.Time
		end         time.Time
		want        float64
	}{
		{"50 per day over three days", 50, date(2026, 3, 10), date(2026, 3, 12), 150},
		{"single day", 80, date(2026, 3, 10), date(2026, 3, 10), 80},
		{"fractional rate rounds to cents", 19.99, date(2026, 3, 10), date(2026, 3, 12), 59.97},
		{"repeating fraction", 33.33, date(2026, 3, 10), date(2026, 3, 16), 233.31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := totalPrice(tt.pricePerDay, tt.start, tt.end); got != tt.want {
				t.Errorf("totalPrice(%v) = %v, want %v", tt.pricePerDay, got, tt.want)
			}
		})
	}
}

// Same dates, same rate, same price: no hidden dependence on when the
// calculation runs.
func TestTotalPrice_Deterministic(t *testing.T) {
	start := date(2026, 6, 1)
	end := date(2026, 6, 3)

	first := totalPrice(50, start, end)
	for i := 0; i < 10; i++ {
		if got := totalPrice(50, start, end); got != first {
			t.Fatalf("price changed between runs: %v then %v", first, got)
		}
	}
	if first != 150 {
		t.Errorf("expected 150, got %v", first)
	}
}
