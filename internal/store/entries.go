package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/tripcast/internal/model"
)

// SetBudget creates or updates one category budget. New categories are
// appended after the existing ones.
func (l *Ledger) SetBudget(ctx context.Context, b model.Budget) error {
	return setBudget(ctx, l.db, b)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setBudget(ctx context.Context, db execer, b model.Budget) error {
	if b.Amount < 0 {
		return fmt.Errorf("budget for %s: amount must not be negative", b.Category)
	}
	if strings.TrimSpace(b.Category) == "" {
		return errors.New("budget category is required")
	}
	_, err := db.ExecContext(ctx, `INSERT INTO budgets (trip_id, category, amount, accrual_type, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM budgets WHERE trip_id = ?))
		ON CONFLICT(trip_id, category) DO UPDATE SET
			amount = excluded.amount,
			accrual_type = excluded.accrual_type`,
		b.TripID, b.Category, b.Amount, string(b.AccrualType), b.TripID,
	)
	if err != nil {
		return fmt.Errorf("saving budget %s: %w", b.Category, err)
	}
	return nil
}

// ReplaceBudgets swaps all budgets of a trip for the given list, keeping its order.
func (l *Ledger) ReplaceBudgets(ctx context.Context, tripID string, budgets []model.Budget) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE trip_id = ?`, tripID); err != nil {
		return fmt.Errorf("clearing budgets: %w", err)
	}
	for _, b := range budgets {
		b.TripID = tripID
		if err := setBudget(ctx, tx, b); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListBudgets returns the budgets of a trip in the order they were created.
func (l *Ledger) ListBudgets(ctx context.Context, tripID string) ([]model.Budget, error) {
	return listBudgets(ctx, l.db, tripID)
}

func listBudgets(ctx context.Context, q queryer, tripID string) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, `SELECT trip_id, category, amount, accrual_type
		FROM budgets WHERE trip_id = ? ORDER BY position`, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		var accrual string
		if err := rows.Scan(&b.TripID, &b.Category, &b.Amount, &accrual); err != nil {
			return nil, err
		}
		b.AccrualType = model.AccrualType(accrual)
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// AddExpense records money spent. An empty ID is generated.
func (l *Ledger) AddExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if err := saveExpense(ctx, l.db, e, ""); err != nil {
		return e, err
	}
	return e, nil
}

func saveExpense(ctx context.Context, db execer, e model.Expense, sourceFile string) error {
	if e.Amount < 0 {
		return fmt.Errorf("expense %s: amount must not be negative", e.ID)
	}
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO expenses
		(id, trip_id, category, amount, description, spent_at, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TripID, e.Category, e.Amount, e.Description, formatTime(e.SpentAt), sourceFile,
	)
	if err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}
	return nil
}

// DeleteExpense removes one expense.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return requireRow(res, "expense "+id)
}

// ListExpenses returns the expenses of a trip, oldest first.
func (l *Ledger) ListExpenses(ctx context.Context, tripID string) ([]model.Expense, error) {
	return listExpenses(ctx, l.db, tripID)
}

func listExpenses(ctx context.Context, q queryer, tripID string) ([]model.Expense, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, trip_id, category, amount, description, spent_at
		FROM expenses WHERE trip_id = ? ORDER BY spent_at, rowid`, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		var desc, spentAt sql.NullString
		if err := rows.Scan(&e.ID, &e.TripID, &e.Category, &e.Amount, &desc, &spentAt); err != nil {
			return nil, err
		}
		e.Description = desc.String
		e.SpentAt = parseTime(spentAt)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// SpentByCategory sums expenses per category for a trip.
func (l *Ledger) SpentByCategory(ctx context.Context, tripID string) (map[string]float64, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT category, SUM(amount) FROM expenses
		WHERE trip_id = ? GROUP BY category`, tripID)
	if err != nil {
		return nil, fmt.Errorf("summing expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	spent := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		spent[category] = total
	}
	return spent, rows.Err()
}

// AddReservation records a booking. An empty ID is generated.
func (l *Ledger) AddReservation(ctx context.Context, r model.Reservation) (model.Reservation, error) {
	if r.ID == "" {
		r.ID = NewID()
	}
	if err := saveReservation(ctx, l.db, r, ""); err != nil {
		return r, err
	}
	return r, nil
}

func saveReservation(ctx context.Context, db execer, r model.Reservation, sourceFile string) error {
	if r.Amount < 0 {
		return fmt.Errorf("reservation %s: amount must not be negative", r.ID)
	}
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO reservations
		(id, trip_id, category, name, amount, confirmed, date, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TripID, r.Category, r.Name, r.Amount, boolInt(r.Confirmed), formatDate(r.Date), sourceFile,
	)
	if err != nil {
		return fmt.Errorf("saving reservation: %w", err)
	}
	return nil
}

// ConfirmReservation marks a booking as paid.
func (l *Ledger) ConfirmReservation(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `UPDATE reservations SET confirmed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("confirming reservation: %w", err)
	}
	return requireRow(res, "reservation "+id)
}

// ListReservations returns the reservations of a trip by date.
func (l *Ledger) ListReservations(ctx context.Context, tripID string) ([]model.Reservation, error) {
	return listReservations(ctx, l.db, tripID)
}

func listReservations(ctx context.Context, q queryer, tripID string) ([]model.Reservation, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, trip_id, category, name, amount, confirmed, date
		FROM reservations WHERE trip_id = ? ORDER BY date, rowid`, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reservations []model.Reservation
	for rows.Next() {
		var r model.Reservation
		var name, date sql.NullString
		var confirmed int
		if err := rows.Scan(&r.ID, &r.TripID, &r.Category, &name, &r.Amount, &confirmed, &date); err != nil {
			return nil, err
		}
		r.Name = name.String
		r.Confirmed = confirmed != 0
		r.Date = parseDate(date)
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// Snapshot is a consistent read of everything the forecast needs for one trip.
type Snapshot struct {
	Trip         model.Trip
	Budgets      []model.Budget
	Expenses     []model.Expense
	Reservations []model.Reservation
}

// Snapshot reads a trip and its ledger rows inside one read transaction.
func (l *Ledger) Snapshot(ctx context.Context, tripID string) (Snapshot, error) {
	var snap Snapshot

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return snap, err
	}
	defer func() { _ = tx.Rollback() }()

	if snap.Trip, err = getTrip(ctx, tx, tripID); err != nil {
		return snap, err
	}
	if snap.Budgets, err = listBudgets(ctx, tx, tripID); err != nil {
		return snap, err
	}
	if snap.Expenses, err = listExpenses(ctx, tx, tripID); err != nil {
		return snap, err
	}
	if snap.Reservations, err = listReservations(ctx, tx, tripID); err != nil {
		return snap, err
	}
	return snap, tx.Commit()
}
