package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending ceiling for one category in one calendar month.
type Budget struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	Category  Category        `json:"category" db:"category"`
	Month     int             `json:"month" db:"month"`
	Year      int             `json:"year" db:"year"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

const (
	minBudgetYear = 2000
	maxBudgetYear = 2100
)

func (b Budget) Validate() error {
	v := &ValidationError{}

	if !b.Category.Valid() {
		v.Add("category", "is not a known category")
	}
	if b.Month < 1 || b.Month > 12 {
		v.Add("month", "must be between 1 and 12")
	}
	if b.Year < minBudgetYear || b.Year > maxBudgetYear {
		v.Add("year", "must be between 2000 and 2100")
	}
	checkAmount(v, "amount", b.Amount, false)

	return v.errOrNil()
}

type BudgetInput struct {
	Category Category         `json:"category"`
	Month    int              `json:"month"`
	Year     int              `json:"year"`
	Amount   *decimal.Decimal `json:"amount"`
}

func (in BudgetInput) ToBudget(userID int64) (Budget, error) {
	b := Budget{
		UserID:   userID,
		Category: in.Category,
		Month:    in.Month,
		Year:     in.Year,
	}

	v := &ValidationError{}
	if in.Amount == nil {
		v.Add("amount", "is required")
	} else {
		b.Amount = *in.Amount
	}
	if err := b.Validate(); err != nil {
		for field, reason := range err.(*ValidationError).Fields {
			v.Add(field, reason)
		}
	}
	return b, v.errOrNil()
}

type BudgetPatch struct {
	Category *Category        `json:"category"`
	Month    *int             `json:"month"`
	Year     *int             `json:"year"`
	Amount   *decimal.Decimal `json:"amount"`
}

func (p BudgetPatch) Empty() bool {
	return p.Category == nil && p.Month == nil && p.Year == nil && p.Amount == nil
}

func (p BudgetPatch) Apply(b Budget) (Budget, error) {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Month != nil {
		b.Month = *p.Month
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	return b, b.Validate()
}

type BudgetFilter struct {
	Category Category
	Month    int
	Year     int
}

// BudgetStatus reports how much of a budget has been used.
type BudgetStatus struct {
	Budget     Budget          `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage string          `json:"percentage"`
}
