package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"
)

const notificationColumns = `id, user_id, title, message, type, is_read, created_at`

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = s.timestamp()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message, type, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Title, n.Message, string(n.Type), boolToInt(n.IsRead), formatTime(n.CreatedAt))
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("notification id: %w", err)
	}
	n.ID = id
	return nil
}

func (s *Store) GetNotification(ctx context.Context, userID, id int64) (models.Notification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	return scanNotification(row)
}

// ListNotifications returns a page of the user's notifications, newest first,
// together with the total matching the filter.
func (s *Store) ListNotifications(ctx context.Context, userID int64, f models.NotificationFilter) ([]models.Notification, int, error) {
	clause := ` WHERE user_id = ?`
	args := []any{userID}
	if f.UnreadOnly {
		clause += ` AND is_read = 0`
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications` + clause + ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (s *Store) UnreadNotificationCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&n)
	return n, err
}

// NotificationExistsSince reports whether the user already has a notification
// with this title created at or after since.
func (s *Store) NotificationExistsSince(ctx context.Context, userID int64, title string, since time.Time) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND title = ? AND created_at >= ?`,
		userID, title, formatTime(since)).Scan(&n)
	return n > 0, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// MarkAllNotificationsRead flips every unread notification of the user and
// returns how many changed.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) DeleteNotification(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// DeleteReadNotificationsBefore removes read notifications older than cutoff for all users.
func (s *Store) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE is_read = 1 AND created_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanNotification(row rowScanner) (models.Notification, error) {
	var (
		n         models.Notification
		kind      string
		createdAt string
	)
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &kind, &n.IsRead, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotFound
	}
	if err != nil {
		return models.Notification{}, err
	}

	n.Type = models.NotificationType(kind)
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}
