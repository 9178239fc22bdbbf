package store

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/tripcast/internal/model"
)

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all imported files.
func (l *Ledger) GetTrackedFiles(ctx context.Context) (map[string]FileInfo, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveBatch stores a parsed ledger file and its tracking info atomically.
// Rows previously imported from the same file are replaced.
func (l *Ledger) SaveBatch(ctx context.Context, b model.Batch, fi FileInfo) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range b.Trips {
		if t.ID == "" {
			t.ID = model.TripIDFor(t.Name)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO trips (`+tripColumns+`)
			VALUES (?, ?, ?, ?, ?, 0, ?)
			ON CONFLICT(id) DO UPDATE SET
				destination = excluded.destination,
				start_date = excluded.start_date,
				end_date = excluded.end_date`,
			t.ID, t.Name, t.Destination, formatDate(t.StartDate), formatDate(t.EndDate), formatTime(t.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("importing trip %q: %w", t.Name, err)
		}
	}

	if b.FilePath != "" {
		if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE source_file = ?", b.FilePath); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE source_file = ?", b.FilePath); err != nil {
			return err
		}
	}

	for _, bu := range b.Budgets {
		if err := setBudget(ctx, tx, bu); err != nil {
			return err
		}
	}
	for _, e := range b.Expenses {
		if err := saveExpense(ctx, tx, e, b.FilePath); err != nil {
			return err
		}
	}
	for _, r := range b.Reservations {
		if err := saveReservation(ctx, tx, r, b.FilePath); err != nil {
			return err
		}
	}

	if b.FilePath != "" {
		_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
			VALUES (?, ?, ?)`, b.FilePath, fi.MtimeNs, fi.SizeBytes)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteFileTracker forgets an imported file so the next import re-reads it.
func (l *Ledger) DeleteFileTracker(ctx context.Context, filePath string) error {
	_, err := l.db.ExecContext(ctx, "DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}
