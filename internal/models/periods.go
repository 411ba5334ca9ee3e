package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthRange returns the first and last second of a calendar month in local time.
func MonthRange(year, month int) (from, to time.Time) {
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	to = from.AddDate(0, 1, 0).Add(-time.Second)
	return from, to
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// TrendWindow returns the range covering the current month and the n-1 months
// before it, along with the month keys in ascending order.
func TrendWindow(now time.Time, n int) (from, to time.Time, keys []string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	from = first.AddDate(0, -(n - 1), 0)
	to = first.AddDate(0, 1, 0).Add(-time.Second)

	keys = make([]string, 0, n)
	for m := from; !m.After(first); m = m.AddDate(0, 1, 0) {
		keys = append(keys, MonthKey(m))
	}
	return from, to, keys
}

// MonthlyTrend holds income and expense totals for one YYYY-MM month.
type MonthlyTrend struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}
