// Package stores implements the core store interfaces on SQLite.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hay-kot/mbot/internal/core/notify"
	"github.com/hay-kot/mbot/internal/data/db"
)

const (
	insertNotificationSQL = `INSERT INTO notifications (level, message, reminder_key, created_at) VALUES (?, ?, ?, ?)`
	listNotificationsSQL  = `SELECT id, level, message, reminder_key, created_at FROM notifications ORDER BY created_at DESC, id DESC`
	deleteNotificationSQL = `DELETE FROM notifications`
	countNotificationSQL  = `SELECT COUNT(*) FROM notifications`
	pruneNotificationSQL  = `DELETE FROM notifications WHERE created_at < ?`
)

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a new SQLite-backed notification store.
func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

// Save persists a notification and returns its auto-generated ID.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) (int64, error) {
	if !n.Level.IsValid() {
		return 0, fmt.Errorf("invalid notification level %q", n.Level)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	res, err := s.db.Conn().ExecContext(ctx, insertNotificationSQL,
		string(n.Level), n.Message, n.Key, n.CreatedAt.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert notification id: %w", err)
	}

	return id, nil
}

// List returns notifications ordered by newest first. limit <= 0 returns all.
func (s *NotifyStore) List(ctx context.Context, limit int) ([]notify.Notification, error) {
	query := listNotificationsSQL
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]notify.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return result, nil
}

// Clear deletes all notifications.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, deleteNotificationSQL); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the total number of notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Conn().QueryRowContext(ctx, countNotificationSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

// PruneBefore deletes notifications created before cutoff and returns how
// many were removed.
func (s *NotifyStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, pruneNotificationSQL, cutoff.UnixNano())
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune notifications: %w", err)
	}
	return removed, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (notify.Notification, error) {
	var (
		n         notify.Notification
		level     string
		createdAt int64
	)
	if err := row.Scan(&n.ID, &level, &n.Message, &n.Key, &createdAt); err != nil {
		return notify.Notification{}, err
	}
	n.Level = notify.Level(level)
	n.CreatedAt = time.Unix(0, createdAt)
	return n, nil
}
