package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tripcast/internal/model"
)

const tripColumns = `id, name, destination, start_date, end_date, budget_setup_done, created_at`

// SaveTrip inserts a trip or updates the one with the same ID. An empty ID
// is derived from the trip name.
func (l *Ledger) SaveTrip(ctx context.Context, t model.Trip) (model.Trip, error) {
	if strings.TrimSpace(t.Name) == "" {
		return t, errors.New("trip name is required")
	}
	if t.EndDate.Before(t.StartDate) {
		return t, fmt.Errorf("trip %q ends before it starts", t.Name)
	}
	if t.ID == "" {
		t.ID = model.TripIDFor(t.Name)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `INSERT INTO trips (`+tripColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			destination = excluded.destination,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		t.ID, t.Name, t.Destination, formatDate(t.StartDate), formatDate(t.EndDate),
		boolInt(t.BudgetSetupDone), formatTime(t.CreatedAt),
	)
	if err != nil {
		return t, fmt.Errorf("saving trip %q: %w", t.Name, err)
	}
	return t, nil
}

// GetTrip returns the trip with the exact ID.
func (l *Ledger) GetTrip(ctx context.Context, id string) (model.Trip, error) {
	return getTrip(ctx, l.db, id)
}

func getTrip(ctx context.Context, q queryer, id string) (model.Trip, error) {
	row := q.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}
	return t, err
}

// FindTrip resolves a trip by ID, name (case-insensitive), or unique ID prefix.
func (l *Ledger) FindTrip(ctx context.Context, ref string) (model.Trip, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Trip{}, fmt.Errorf("empty trip reference: %w", ErrNotFound)
	}

	row := l.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = ? OR name = ?`, ref, ref)
	t, err := scanTrip(row)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return t, err
	}

	rows, err := l.db.QueryContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id LIKE ? || '%'`, ref)
	if err != nil {
		return model.Trip{}, fmt.Errorf("finding trip %q: %w", ref, err)
	}
	defer func() { _ = rows.Close() }()

	var matches []model.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return model.Trip{}, err
		}
		matches = append(matches, t)
	}
	if err := rows.Err(); err != nil {
		return model.Trip{}, err
	}

	switch len(matches) {
	case 0:
		return model.Trip{}, fmt.Errorf("trip %q: %w", ref, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return model.Trip{}, fmt.Errorf("trip %q matches %d trips: %w", ref, len(matches), ErrAmbiguous)
	}
}

// ListTrips returns all trips ordered by start date.
func (l *Ledger) ListTrips(ctx context.Context) ([]model.Trip, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY start_date, name`)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trips []model.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// ActiveTrips returns trips whose date range covers the given day.
func (l *Ledger) ActiveTrips(ctx context.Context, day time.Time) ([]model.Trip, error) {
	d := formatDate(day)
	rows, err := l.db.QueryContext(ctx, `SELECT `+tripColumns+` FROM trips
		WHERE start_date <= ? AND end_date >= ? ORDER BY start_date, name`, d, d)
	if err != nil {
		return nil, fmt.Errorf("listing active trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trips []model.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// MarkBudgetSetup records that the budget wizard has been completed.
func (l *Ledger) MarkBudgetSetup(ctx context.Context, tripID string) error {
	res, err := l.db.ExecContext(ctx, `UPDATE trips SET budget_setup_done = 1 WHERE id = ?`, tripID)
	if err != nil {
		return fmt.Errorf("marking budget setup: %w", err)
	}
	return requireRow(res, "trip "+tripID)
}

// DeleteTrip removes a trip and everything attached to it.
func (l *Ledger) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, tripID)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	return requireRow(res, "trip "+tripID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (model.Trip, error) {
	var t model.Trip
	var destination, start, end, created sql.NullString
	var setup int
	if err := s.Scan(&t.ID, &t.Name, &destination, &start, &end, &setup, &created); err != nil {
		return t, err
	}
	t.Destination = destination.String
	t.StartDate = parseDate(start)
	t.EndDate = parseDate(end)
	t.BudgetSetupDone = setup != 0
	t.CreatedAt = parseTime(created)
	return t, nil
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
