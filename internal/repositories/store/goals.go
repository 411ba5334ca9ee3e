package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, target_date, completed, created_at, updated_at`

func nullableDate(d *time.Time) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Format(dateLayout), Valid: true}
}

func (s *Store) CreateGoal(ctx context.Context, g *models.Goal) error {
	now := s.timestamp()
	g.CreatedAt, g.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target_amount, current_amount, target_date, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Name, g.TargetAmount.StringFixed(2), g.CurrentAmount.StringFixed(2),
		nullableDate(g.TargetDate), boolToInt(g.Completed), formatTime(now), formatTime(now))
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("goal id: %w", err)
	}
	g.ID = id
	return nil
}

func (s *Store) GetGoal(ctx context.Context, userID, id int64) (models.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	return scanGoal(row)
}

// ListGoals returns the user's goals; a non-nil completed narrows by status.
func (s *Store) ListGoals(ctx context.Context, userID int64, completed *bool) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = ?`
	args := []any{userID}
	if completed != nil {
		query += ` AND completed = ?`
		args = append(args, boolToInt(*completed))
	}
	query += ` ORDER BY completed ASC, created_at DESC, id DESC`

	return s.queryGoals(ctx, query, args...)
}

// ListGoalsDue returns open goals of every user whose target date falls in [from, to].
func (s *Store) ListGoalsDue(ctx context.Context, from, to time.Time) ([]models.Goal, error) {
	return s.queryGoals(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE completed = 0 AND target_date IS NOT NULL AND target_date >= ? AND target_date <= ?
		 ORDER BY target_date ASC, id ASC`,
		from.Format(dateLayout), to.Format(dateLayout))
}

func (s *Store) queryGoals(ctx context.Context, query string, args ...any) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) UpdateGoal(ctx context.Context, g *models.Goal) error {
	g.UpdatedAt = s.timestamp()

	res, err := s.db.ExecContext(ctx,
		`UPDATE goals
		 SET name = ?, target_amount = ?, current_amount = ?, target_date = ?, completed = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		g.Name, g.TargetAmount.StringFixed(2), g.CurrentAmount.StringFixed(2), nullableDate(g.TargetDate),
		boolToInt(g.Completed), formatTime(g.UpdatedAt), g.ID, g.UserID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// AddGoalProgress adds amount to the goal's saved total inside one transaction and
// marks the goal completed once the target is covered. achieved is true only on
// the call that completes it.
func (s *Store) AddGoalProgress(ctx context.Context, userID, id int64, amount decimal.Decimal) (g models.Goal, achieved bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Goal{}, false, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = ? AND user_id = ?`
	if s.isMySQL() {
		query += ` FOR UPDATE`
	}
	g, err = scanGoal(tx.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return models.Goal{}, false, err
	}

	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.CurrentAmount.GreaterThan(models.MaxAmount) {
		v := &models.ValidationError{}
		v.Add("amount", "would push current_amount past the maximum")
		return models.Goal{}, false, v
	}
	if !g.Completed && g.Reached() {
		g.Completed = true
		achieved = true
	}
	g.UpdatedAt = s.timestamp()

	_, err = tx.ExecContext(ctx,
		`UPDATE goals SET current_amount = ?, completed = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		g.CurrentAmount.StringFixed(2), boolToInt(g.Completed), formatTime(g.UpdatedAt), g.ID, g.UserID)
	if err != nil {
		return models.Goal{}, false, err
	}

	if err = tx.Commit(); err != nil {
		return models.Goal{}, false, fmt.Errorf("commit: %w", err)
	}
	return g, achieved, nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var (
		g                    models.Goal
		targetDate           sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &targetDate,
		&g.Completed, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, ErrNotFound
	}
	if err != nil {
		return models.Goal{}, err
	}

	if targetDate.Valid && targetDate.String != "" {
		d, err := parseDate(targetDate.String)
		if err != nil {
			return models.Goal{}, err
		}
		g.TargetDate = &d
	}
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Goal{}, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}
