// Package store provides the SQLite-backed trip ledger.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Sentinel errors returned by ledger lookups.
var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous reference")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// NewID returns a fresh random ID for expenses and reservations.
func NewID() string {
	return uuid.NewString()
}

// Ledger is the SQLite trip ledger.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Counts summarizes how much the ledger holds.
type Counts struct {
	Trips        int `json:"trips"`
	Expenses     int `json:"expenses"`
	Reservations int `json:"reservations"`
	TrackedFiles int `json:"tracked_files"`
}

// Counts returns row counts for the main tables.
func (l *Ledger) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := l.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM trips),
		(SELECT COUNT(*) FROM expenses),
		(SELECT COUNT(*) FROM reservations),
		(SELECT COUNT(*) FROM file_tracker)`).
		Scan(&c.Trips, &c.Expenses, &c.Reservations, &c.TrackedFiles)
	if err != nil {
		return c, fmt.Errorf("counting ledger rows: %w", err)
	}
	return c, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.ParseInLocation(dateLayout, s.String, time.UTC)
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(timeLayout, s.String)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
