package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/tripcast/internal/forecast"
	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/store"
)

// ErrNoTrip is returned when no trip can be picked without an explicit reference.
var ErrNoTrip = errors.New("no trip selected")

// Ledger is the subset of the store the forecast pipeline reads and seeds.
type Ledger interface {
	Snapshot(ctx context.Context, tripID string) (store.Snapshot, error)
	ReplaceBudgets(ctx context.Context, tripID string, budgets []model.Budget) error
}

// Categories seeds the categories a trip starts with and resolves accrual types.
type Categories interface {
	AccrualLookup
	SeedCategories() []string
}

// ForecastTrip reads a trip from the ledger and forecasts it as of now.
// A trip without any budget rows is seeded with zero budgets first.
func ForecastTrip(ctx context.Context, ledger Ledger, cats Categories, tripID string, now time.Time) (model.TripForecast, error) {
	snap, err := ledger.Snapshot(ctx, tripID)
	if err != nil {
		return model.TripForecast{}, fmt.Errorf("reading trip: %w", err)
	}

	if len(snap.Budgets) == 0 {
		seed := SeedBudgets(tripID, cats.SeedCategories(), cats)
		if err := ledger.ReplaceBudgets(ctx, tripID, seed); err != nil {
			return model.TripForecast{}, fmt.Errorf("seeding budgets: %w", err)
		}
		snap.Budgets = seed
	}

	return ForecastSnapshot(snap, cats, now), nil
}

// ForecastSnapshot runs the forecast over rows already read from the ledger.
func ForecastSnapshot(snap store.Snapshot, lookup AccrualLookup, now time.Time) model.TripForecast {
	totalDays, daysElapsed := Timeline(snap.Trip.StartDate, snap.Trip.EndDate, now)
	categories := BuildCategories(snap.Budgets, snap.Expenses, snap.Reservations, lookup)

	return model.TripForecast{
		Trip:       snap.Trip,
		Result:     forecast.Compute(categories, totalDays, daysElapsed),
		ComputedAt: now,
	}
}

// CurrentTrip picks the trip a command applies to when none is named: the
// first one in progress on now's date, else the only trip in the ledger.
func CurrentTrip(trips []model.Trip, now time.Time) (model.Trip, error) {
	today := now.Format(time.DateOnly)
	for _, t := range trips {
		if t.StartDate.Format(time.DateOnly) <= today && today <= t.EndDate.Format(time.DateOnly) {
			return t, nil
		}
	}
	if len(trips) == 1 {
		return trips[0], nil
	}
	if len(trips) == 0 {
		return model.Trip{}, fmt.Errorf("ledger has no trips: %w", ErrNoTrip)
	}
	return model.Trip{}, fmt.Errorf("%d trips and none in progress: %w", len(trips), ErrNoTrip)
}
