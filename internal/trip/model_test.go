package trip

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func f(v float64) *float64 { return &v }

func TestNights(t *testing.T) {
	cases := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  int
	}{
		{"six nights", date(2025, 12, 1), date(2025, 12, 7), 6},
		{"same day clamps to one", date(2025, 12, 1), date(2025, 12, 1), 1},
		{"one night", date(2025, 12, 1), date(2025, 12, 2), 1},
		{"end before start clamps to one", date(2025, 12, 7), date(2025, 12, 1), 1},
		{"unset dates clamp to one", nil, nil, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Request{StartDate: tc.start, EndDate: tc.end}
			if got := r.Nights(); got != tc.want {
				t.Errorf("Nights() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestHotelBudgetPerNight(t *testing.T) {
	// Kyoto scenario: $3000 over 6 nights -> 40% / 6 = $200/night.
	r := Request{
		Location:  "Kyoto, Japan",
		StartDate: date(2025, 12, 1),
		EndDate:   date(2025, 12, 7),
		Occasion:  OccasionCultural,
		Budget:    f(3000),
	}
	if got := r.Nights(); got != 6 {
		t.Fatalf("Nights() = %d, want 6", got)
	}
	if got := r.HotelBudgetPerNight(); math.Abs(got-200.0) > 1e-9 {
		t.Errorf("HotelBudgetPerNight() = %v, want 200.00", got)
	}
}

func TestHotelBudgetPerNightNoBudget(t *testing.T) {
	r := Request{StartDate: date(2025, 12, 1), EndDate: date(2025, 12, 7)}
	if got := r.HotelBudgetPerNight(); got != 0 {
		t.Errorf("HotelBudgetPerNight() = %v, want 0 for unset budget", got)
	}
}

func TestComplete(t *testing.T) {
	r := Request{}
	if r.Complete() {
		t.Error("empty request should not be complete")
	}
	r = Request{
		Location:  "Kyoto, Japan",
		StartDate: date(2025, 12, 1),
		EndDate:   date(2025, 12, 7),
		Occasion:  OccasionCultural,
		Budget:    f(3000),
	}
	if !r.Complete() {
		t.Error("fully populated request should be complete")
	}
}

func TestPOICategory(t *testing.T) {
	if POICategory("Honeymoon") != DefaultPOICategory {
		t.Error("unknown occasion should fall back to the default category")
	}
	if POICategory(OccasionCultural) == DefaultPOICategory {
		t.Error("known occasion should have its own category")
	}
}
