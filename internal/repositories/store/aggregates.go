package store

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// SpendingByCategory sums the user's expenses in one calendar month per category.
// Categories without spend are absent from the result.
func (s *Store) SpendingByCategory(ctx context.Context, userID int64, month, year int) (map[models.Category]decimal.Decimal, error) {
	from, to := models.MonthRange(year, month)

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, amount FROM transactions
		 WHERE user_id = ? AND type = ? AND date >= ? AND date <= ?`,
		userID, string(models.TransactionExpense), formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("spending by category: %w", err)
	}
	defer rows.Close()

	totals := make(map[models.Category]decimal.Decimal)
	for rows.Next() {
		var (
			category string
			amount   decimal.Decimal
		)
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, err
		}
		c := models.Category(category)
		totals[c] = totals[c].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for c, total := range totals {
		if total.IsZero() {
			delete(totals, c)
		}
	}
	return totals, nil
}

// MonthlyTrends sums income and expense per YYYY-MM month over [from, to],
// ascending. Months without transactions are absent.
func (s *Store) MonthlyTrends(ctx context.Context, userID int64, from, to time.Time) ([]models.MonthlyTrend, error) {
	txs, err := s.ListTransactionsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var out []models.MonthlyTrend
	index := make(map[string]int)
	for _, t := range txs {
		key := models.MonthKey(t.Date)
		i, ok := index[key]
		if !ok {
			out = append(out, models.MonthlyTrend{Month: key})
			i = len(out) - 1
			index[key] = i
		}
		switch t.Type {
		case models.TransactionIncome:
			out[i].Income = out[i].Income.Add(t.Amount)
		case models.TransactionExpense:
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}
	return out, nil
}
