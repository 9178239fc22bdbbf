package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestBuildCategories(t *testing.T) {
	cfg := config.DefaultConfig()
	budgets := []model.Budget{
		{Category: "Meals", Amount: 300, AccrualType: model.AccrualVariable},
		{Category: "Accommodation", Amount: 900},
	}
	expenses := []model.Expense{
		{Category: "Meals", Amount: 20},
		{Category: "Meals", Amount: 15.5},
		{Category: "Souvenirs", Amount: 40},
	}
	reservations := []model.Reservation{
		{Category: "Accommodation", Amount: 400, Confirmed: true},
		{Category: "Accommodation", Amount: 250},
		{Category: "Flights", Amount: 600},
	}

	got := BuildCategories(budgets, expenses, reservations, cfg)

	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	wantOrder := []string{"Meals", "Accommodation", "Souvenirs", "Flights"}
	for i, c := range got {
		if c.Category != wantOrder[i] {
			t.Fatalf("got[%d] = %q, want %q", i, c.Category, wantOrder[i])
		}
	}

	if got[0].Spent != 35.5 || got[0].AccrualType != model.AccrualVariable {
		t.Errorf("Meals = %+v, want spent 35.5 variable", got[0])
	}
	if got[1].AccrualType != model.AccrualMixed {
		t.Errorf("Accommodation accrual = %q, want mixed from lookup", got[1].AccrualType)
	}
	if len(got[1].Reservations) != 2 || got[1].Planned != 250 {
		t.Errorf("Accommodation = %+v, want 2 reservations and 250 planned", got[1])
	}
	if got[2].Budget != 0 || got[2].Spent != 40 {
		t.Errorf("Souvenirs = %+v, want zero budget with 40 spent", got[2])
	}
	if got[3].AccrualType != model.AccrualFixed || got[3].Budget != 0 {
		t.Errorf("Flights = %+v, want fixed zero budget", got[3])
	}
}

func TestSeedBudgets(t *testing.T) {
	cfg := config.DefaultConfig()
	seed := SeedBudgets("trip-1", cfg.SeedCategories(), cfg)
	if len(seed) != len(config.DefaultCategories) {
		t.Fatalf("len = %d, want %d", len(seed), len(config.DefaultCategories))
	}
	for _, b := range seed {
		if b.Amount != 0 || b.TripID != "trip-1" {
			t.Fatalf("seed budget = %+v, want zero amount for trip-1", b)
		}
	}
	if seed[0].Category != "Flights" || seed[0].AccrualType != model.AccrualFixed {
		t.Fatalf("seed[0] = %+v, want fixed Flights", seed[0])
	}
}

func TestTimeline(t *testing.T) {
	start := mustDate(t, "2026-03-01")
	end := mustDate(t, "2026-03-10")

	tests := []struct {
		name        string
		now         time.Time
		wantTotal   int
		wantElapsed int
	}{
		{"before trip", mustDate(t, "2026-02-20"), 10, 0},
		{"first day", start.Add(9 * time.Hour), 10, 1},
		{"mid trip", mustDate(t, "2026-03-05").Add(23 * time.Hour), 10, 5},
		{"last day", end, 10, 10},
		{"after trip", mustDate(t, "2026-04-01"), 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, elapsed := Timeline(start, end, tt.now)
			if total != tt.wantTotal || elapsed != tt.wantElapsed {
				t.Fatalf("Timeline = %d/%d, want %d/%d", total, elapsed, tt.wantTotal, tt.wantElapsed)
			}
		})
	}

	total, _ := Timeline(end, start, start)
	if total != 1 {
		t.Fatalf("inverted range total = %d, want 1", total)
	}
}

func TestDailySpend(t *testing.T) {
	start := mustDate(t, "2026-03-01")
	end := mustDate(t, "2026-03-03")
	expenses := []model.Expense{
		{Amount: 10, SpentAt: start.Add(8 * time.Hour)},
		{Amount: 5, SpentAt: start.Add(20 * time.Hour)},
		{Amount: 7, SpentAt: mustDate(t, "2026-03-03")},
		{Amount: 99, SpentAt: mustDate(t, "2026-05-01")},
		{Amount: 1},
	}

	days := DailySpend(expenses, start, end)
	if len(days) != 3 {
		t.Fatalf("len = %d, want 3", len(days))
	}
	if days[0].Amount != 15 || days[0].Count != 2 {
		t.Errorf("day 1 = %+v, want 15 over 2 expenses", days[0])
	}
	if days[1].Amount != 0 {
		t.Errorf("day 2 = %+v, want empty", days[1])
	}
	if days[2].Amount != 7 {
		t.Errorf("day 3 = %+v, want 7", days[2])
	}
}
