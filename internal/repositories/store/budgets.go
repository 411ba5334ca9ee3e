package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/models"
)

const budgetColumns = `id, user_id, category, month, year, amount, created_at, updated_at`

func (s *Store) CreateBudget(ctx context.Context, b *models.Budget) error {
	now := s.timestamp()
	b.CreatedAt, b.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, month, year, amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, string(b.Category), b.Month, b.Year, b.Amount.StringFixed(2), formatTime(now), formatTime(now))
	if err != nil {
		return classifyDuplicate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("budget id: %w", err)
	}
	b.ID = id
	return nil
}

func (s *Store) GetBudget(ctx context.Context, userID, id int64) (models.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	return scanBudget(row)
}

// FindBudget returns the user's budget for one category and month, or ErrNotFound.
func (s *Store) FindBudget(ctx context.Context, userID int64, category models.Category, month, year int) (models.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets
		 WHERE user_id = ? AND category = ? AND month = ? AND year = ?`,
		userID, string(category), month, year)
	return scanBudget(row)
}

func (s *Store) ListBudgets(ctx context.Context, userID int64, f models.BudgetFilter) ([]models.Budget, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	if f.Month != 0 {
		where = append(where, "month = ?")
		args = append(args, f.Month)
	}
	if f.Year != 0 {
		where = append(where, "year = ?")
		args = append(args, f.Year)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE `+strings.Join(where, " AND ")+
			` ORDER BY year DESC, month DESC, category ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateBudget(ctx context.Context, b *models.Budget) error {
	b.UpdatedAt = s.timestamp()

	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, month = ?, year = ?, amount = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		string(b.Category), b.Month, b.Year, b.Amount.StringFixed(2), formatTime(b.UpdatedAt), b.ID, b.UserID)
	if err != nil {
		return classifyDuplicate(err)
	}
	return affectedOrNotFound(res)
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanBudget(row rowScanner) (models.Budget, error) {
	var (
		b                    models.Budget
		category             string
		createdAt, updatedAt string
	)
	err := row.Scan(&b.ID, &b.UserID, &category, &b.Month, &b.Year, &b.Amount, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Budget{}, ErrNotFound
	}
	if err != nil {
		return models.Budget{}, err
	}

	b.Category = models.Category(category)
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Budget{}, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Budget{}, err
	}
	return b, nil
}
