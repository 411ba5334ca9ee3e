// Package analytics renders the aggregation queries for the API.
package analytics

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/services/alerts"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTrendMonths = 6
	MaxTrendMonths     = 60
)

type Store interface {
	SpendingByCategory(ctx context.Context, userID int64, month, year int) (map[models.Category]decimal.Decimal, error)
	MonthlyTrends(ctx context.Context, userID int64, from, to time.Time) ([]models.MonthlyTrend, error)
	ListBudgets(ctx context.Context, userID int64, f models.BudgetFilter) ([]models.Budget, error)
	UnreadNotificationCount(ctx context.Context, userID int64) (int, error)
}

type TrendPoint struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type Summary struct {
	Month               string            `json:"month"`
	Income              string            `json:"income"`
	Expense             string            `json:"expense"`
	Net                 string            `json:"net"`
	ByCategory          map[string]string `json:"by_category"`
	UnreadNotifications int               `json:"unread_notifications"`
}

type Service struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Now is the clock used for "current month" defaults.
func (s *Service) Now() time.Time {
	return s.now()
}

// ClampMonths applies the trend window default and bounds.
func ClampMonths(n int) int {
	switch {
	case n <= 0:
		return DefaultTrendMonths
	case n > MaxTrendMonths:
		return MaxTrendMonths
	default:
		return n
	}
}

func (s *Service) SpendingByCategory(ctx context.Context, userID int64, month, year int) (map[string]string, error) {
	totals, err := s.store.SpendingByCategory(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	return formatTotals(totals), nil
}

func formatTotals(totals map[models.Category]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(totals))
	for c, total := range totals {
		out[string(c)] = total.StringFixed(2)
	}
	return out
}

// MonthlyTrends covers the current month and the months-1 before it. With dense
// set, months without activity are reported with zero totals.
func (s *Service) MonthlyTrends(ctx context.Context, userID int64, months int, dense bool) ([]TrendPoint, error) {
	months = ClampMonths(months)
	from, to, keys := models.TrendWindow(s.now(), months)

	trends, err := s.store.MonthlyTrends(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if dense {
		trends = densify(trends, keys)
	}

	out := make([]TrendPoint, 0, len(trends))
	for _, t := range trends {
		out = append(out, TrendPoint{
			Month:   t.Month,
			Income:  t.Income.StringFixed(2),
			Expense: t.Expense.StringFixed(2),
		})
	}
	return out, nil
}

func densify(trends []models.MonthlyTrend, keys []string) []models.MonthlyTrend {
	byMonth := make(map[string]models.MonthlyTrend, len(trends))
	for _, t := range trends {
		byMonth[t.Month] = t
	}

	out := make([]models.MonthlyTrend, 0, len(keys))
	for _, k := range keys {
		t, ok := byMonth[k]
		if !ok {
			t = models.MonthlyTrend{Month: k, Income: decimal.Zero, Expense: decimal.Zero}
		}
		out = append(out, t)
	}
	return out
}

// BudgetStatus reports spend against every budget of the given month.
// Remaining goes negative once a budget is exceeded.
func (s *Service) BudgetStatus(ctx context.Context, userID int64, month, year int) ([]models.BudgetStatus, error) {
	var (
		budgets []models.Budget
		spent   map[models.Category]decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, userID, models.BudgetFilter{Month: month, Year: year})
		return err
	})
	g.Go(func() error {
		var err error
		spent, err = s.store.SpendingByCategory(gctx, userID, month, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		used := spent[b.Category]
		pct := decimal.Zero
		if b.Amount.IsPositive() {
			pct = alerts.Percentage(used, b.Amount)
		}
		out = append(out, models.BudgetStatus{
			Budget:     b,
			Spent:      used,
			Remaining:  b.Amount.Sub(used),
			Percentage: pct.Truncate(1).StringFixed(1),
		})
	}
	return out, nil
}

// Summary gathers the current month's totals and the unread count concurrently.
func (s *Service) Summary(ctx context.Context, userID int64) (Summary, error) {
	now := s.now()
	month, year := int(now.Month()), now.Year()
	from, to := models.MonthRange(year, month)

	var (
		byCategory map[models.Category]decimal.Decimal
		trends     []models.MonthlyTrend
		unread     int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byCategory, err = s.store.SpendingByCategory(gctx, userID, month, year)
		if err != nil {
			return fmt.Errorf("spending by category: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		trends, err = s.store.MonthlyTrends(gctx, userID, from, to)
		if err != nil {
			return fmt.Errorf("monthly totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		unread, err = s.store.UnreadNotificationCount(gctx, userID)
		if err != nil {
			return fmt.Errorf("unread count: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	income, expense := decimal.Zero, decimal.Zero
	for _, t := range trends {
		income = income.Add(t.Income)
		expense = expense.Add(t.Expense)
	}

	return Summary{
		Month:               models.MonthKey(now),
		Income:              income.StringFixed(2),
		Expense:             expense.StringFixed(2),
		Net:                 income.Sub(expense).StringFixed(2),
		ByCategory:          formatTotals(byCategory),
		UnreadNotifications: unread,
	}, nil
}
