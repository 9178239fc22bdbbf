package daemon

import (
	"context"
	"time"

	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/store"
)

//go:generate mockgen -source=ledger.go -destination=ledger_mock.go -package=daemon

// Ledger is the read-only view of the trip ledger the daemon polls.
type Ledger interface {
	ListTrips(ctx context.Context) ([]model.Trip, error)
	ActiveTrips(ctx context.Context, day time.Time) ([]model.Trip, error)
	Snapshot(ctx context.Context, tripID string) (store.Snapshot, error)
}
