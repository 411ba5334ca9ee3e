// Package alerts raises budget notifications after expenses are recorded.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repositories/store"
	"fintrack/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(80)
)

type Store interface {
	FindBudget(ctx context.Context, userID int64, category models.Category, month, year int) (models.Budget, error)
	ListTransactionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, kind models.NotificationType, title, message string) (models.Notification, error)
}

type Evaluator struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func NewEvaluator(store Store, notifier Notifier) *Evaluator {
	return &Evaluator{store: store, notifier: notifier, now: time.Now}
}

// AfterExpense runs the budget check for a freshly stored transaction. It is
// evaluated against the current calendar month whatever the transaction date.
// Income is ignored. Every failure, panics included, is logged and swallowed.
func (e *Evaluator) AfterExpense(ctx context.Context, t models.Transaction) {
	if t.Type != models.TransactionExpense {
		return
	}

	log := utils.Logger.WithFields(logrus.Fields{
		"user_id":        t.UserID,
		"category":       t.Category,
		"transaction_id": t.ID,
	})
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("budget alert evaluation panicked")
		}
	}()

	now := e.now()
	n, err := e.Evaluate(ctx, t.UserID, t.Category, int(now.Month()), now.Year())
	if err != nil {
		log.WithError(err).Error("budget alert evaluation failed")
		return
	}
	if n != nil {
		log.WithField("notification_id", n.ID).Info(n.Title)
	}
}

// Evaluate compares the month's spend in category against its budget and creates
// at most one notification. It returns nil when no threshold is crossed or no
// budget exists. Repeated calls are not deduplicated.
func (e *Evaluator) Evaluate(ctx context.Context, userID int64, category models.Category, month, year int) (*models.Notification, error) {
	budget, err := e.store.FindBudget(ctx, userID, category, month, year)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find budget: %w", err)
	}
	if !budget.Amount.IsPositive() {
		return nil, nil
	}

	from, to := models.MonthRange(year, month)
	txs, err := e.store.ListTransactionsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load month transactions: %w", err)
	}

	spent := decimal.Zero
	for _, t := range txs {
		if t.Type == models.TransactionExpense && t.Category == category {
			spent = spent.Add(t.Amount)
		}
	}

	title, message, ok := classify(category, spent, budget.Amount)
	if !ok {
		return nil, nil
	}

	n, err := e.notifier.Notify(ctx, userID, models.NotificationWarning, title, message)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Percentage is spent as a share of budget, in percent.
func Percentage(spent, budget decimal.Decimal) decimal.Decimal {
	return spent.Mul(hundred).Div(budget)
}

func classify(category models.Category, spent, budget decimal.Decimal) (title, message string, ok bool) {
	pct := Percentage(spent, budget)

	switch {
	case pct.GreaterThanOrEqual(hundred):
		return fmt.Sprintf("Budget Exceeded - %s", category),
			fmt.Sprintf("You have exceeded your %s budget by %s (%s spent of %s).",
				category, spent.Sub(budget).StringFixed(2), spent.StringFixed(2), budget.StringFixed(2)),
			true
	case pct.GreaterThanOrEqual(warningThreshold):
		// truncated so a near-miss never reads as 100.0%
		return fmt.Sprintf("Budget Alert - %s", category),
			fmt.Sprintf("You have spent %s%% of your %s budget (%s of %s).",
				pct.Truncate(1).StringFixed(1), category, spent.StringFixed(2), budget.StringFixed(2)),
			true
	default:
		return "", "", false
	}
}
