package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, amount, description, category, type, date, created_at, updated_at`

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	now := s.timestamp()
	t.CreatedAt, t.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount, description, category, type, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Amount.StringFixed(2), t.Description, string(t.Category), string(t.Type),
		formatTime(t.Date), formatTime(now), formatTime(now))
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id int64) (models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return scanTransaction(row)
}

var transactionSortColumns = map[string]string{
	"date":       "date",
	"created_at": "created_at",
	"category":   "category",
}

// ListTransactions returns one page of the user's transactions and the total
// number of rows matching the filter.
func (s *Store) ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter) ([]models.Transaction, int, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, formatTime(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, formatTime(f.To))
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + clause +
		` ORDER BY ` + s.transactionOrder(f.SortBy, f.Order)
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (s *Store) transactionOrder(sortBy, order string) string {
	dir := "DESC"
	if strings.EqualFold(order, "asc") {
		dir = "ASC"
	}

	column, ok := transactionSortColumns[sortBy]
	if sortBy == "amount" {
		// SQLite keeps amounts as TEXT
		column, ok = "amount", true
		if !s.isMySQL() {
			column = "CAST(amount AS NUMERIC)"
		}
	}
	if !ok {
		column = "date"
	}
	return column + " " + dir + ", id " + dir
}

// ListTransactionsInRange returns every transaction of the user dated within
// [from, to], oldest first.
func (s *Store) ListTransactionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, id ASC`,
		userID, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTransaction writes every mutable field of t. The row must belong to t.UserID.
func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	t.UpdatedAt = s.timestamp()

	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount = ?, description = ?, category = ?, type = ?, date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		t.Amount.StringFixed(2), t.Description, string(t.Category), string(t.Type),
		formatTime(t.Date), formatTime(t.UpdatedAt), t.ID, t.UserID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		t                          models.Transaction
		amount                     decimal.Decimal
		category, kind             string
		date, createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.UserID, &amount, &t.Description, &category, &kind, &date, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}

	t.Amount = amount
	t.Category = models.Category(category)
	t.Type = models.TransactionType(kind)
	if t.Date, err = parseTime(date); err != nil {
		return models.Transaction{}, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Transaction{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}
