// Package stores implements the persistence interfaces of the core packages.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/beacon/internal/core/notify"
	"github.com/colonyops/beacon/internal/data/db"
)

const busyRetries = 3

// HistoryStore implements notify.Store using SQLite.
type HistoryStore struct {
	db *db.DB
}

var _ notify.Store = (*HistoryStore)(nil)

// NewHistoryStore creates a new SQLite-backed dismissal history store.
func NewHistoryStore(db *db.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Save records a dismissed notification. Saving the same ID and creation time
// twice keeps the first record.
func (s *HistoryStore) Save(ctx context.Context, r notify.Record) error {
	var err error
	for attempt := range busyRetries {
		_, err = s.db.Conn().ExecContext(ctx, `
			INSERT OR IGNORE INTO dismissals
				(id, owner, type, title, content, reason, created_at, dismissed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Owner, string(r.Type), r.Title, r.Content, r.Reason.String(),
			r.CreatedAt.UnixNano(), r.DismissedAt.UnixNano(),
		)
		if err == nil || !IsBusyError(err) {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("insert dismissal: %w", err)
	}

	return nil
}

// List returns all dismissals ordered by newest first.
func (s *HistoryStore) List(ctx context.Context) ([]notify.Record, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, owner, type, title, content, reason, created_at, dismissed_at
		FROM dismissals
		ORDER BY dismissed_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list dismissals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]notify.Record, 0)
	for rows.Next() {
		var (
			r                    notify.Record
			typ, reason          string
			createdAt, dismissed int64
		)
		if err := rows.Scan(&r.ID, &r.Owner, &typ, &r.Title, &r.Content, &reason, &createdAt, &dismissed); err != nil {
			return nil, fmt.Errorf("scan dismissal: %w", err)
		}

		r.Type = notify.Type(typ)
		r.Reason, err = notify.ParseDismissReason(reason)
		if err != nil {
			return nil, fmt.Errorf("dismissal %d: %w", r.ID, err)
		}
		r.CreatedAt = time.Unix(0, createdAt)
		r.DismissedAt = time.Unix(0, dismissed)
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dismissals: %w", err)
	}
	return result, nil
}

// Clear deletes all dismissals.
func (s *HistoryStore) Clear(ctx context.Context) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM dismissals")
		return err
	})
	if err != nil {
		return fmt.Errorf("clear dismissals: %w", err)
	}
	return nil
}

// Count returns the total number of dismissals.
func (s *HistoryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM dismissals").Scan(&count); err != nil {
		return 0, fmt.Errorf("count dismissals: %w", err)
	}
	return count, nil
}
