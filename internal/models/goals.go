package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            int64           `json:"id" db:"id"`
	UserID        int64           `json:"user_id" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount" db:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	TargetDate    *time.Time      `json:"target_date,omitempty" db:"target_date"`
	Completed     bool            `json:"completed" db:"completed"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Reached reports whether the saved amount covers the target.
func (g Goal) Reached() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

func (g Goal) Remaining() decimal.Decimal {
	if g.Reached() {
		return decimal.Zero
	}
	return g.TargetAmount.Sub(g.CurrentAmount)
}

func (g Goal) Validate() error {
	v := &ValidationError{}

	name := strings.TrimSpace(g.Name)
	if name == "" {
		v.Add("name", "is required")
	} else if len(name) > 100 {
		v.Add("name", "must be at most 100 characters")
	}
	checkAmount(v, "target_amount", g.TargetAmount, false)
	checkAmount(v, "current_amount", g.CurrentAmount, true)
	if g.TargetDate != nil {
		checkDate(v, "target_date", *g.TargetDate)
	}

	return v.errOrNil()
}

type GoalInput struct {
	Name          string           `json:"name"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	TargetDate    string           `json:"target_date"`
}

func (in GoalInput) ToGoal(userID int64) (Goal, error) {
	g := Goal{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		CurrentAmount: decimal.Zero,
	}

	v := &ValidationError{}
	if in.TargetAmount == nil {
		v.Add("target_amount", "is required")
	} else {
		g.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		g.CurrentAmount = *in.CurrentAmount
	}
	if strings.TrimSpace(in.TargetDate) != "" {
		d, err := ParseDate(in.TargetDate)
		if err != nil {
			v.Add("target_date", err.Error())
		} else {
			day := truncateToDay(d)
			g.TargetDate = &day
		}
	}

	if err := g.Validate(); err != nil {
		for field, reason := range err.(*ValidationError).Fields {
			v.Add(field, reason)
		}
	}
	g.Completed = g.Reached()
	return g, v.errOrNil()
}

// GoalPatch is a partial goal update. An empty TargetDate string clears the date.
type GoalPatch struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	TargetDate    *string          `json:"target_date"`
	Completed     *bool            `json:"completed"`
}

func (p GoalPatch) Empty() bool {
	return p.Name == nil && p.TargetAmount == nil && p.CurrentAmount == nil && p.TargetDate == nil && p.Completed == nil
}

func (p GoalPatch) Apply(g Goal) (Goal, error) {
	v := &ValidationError{}

	if p.Name != nil {
		g.Name = strings.TrimSpace(*p.Name)
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.TargetDate != nil {
		if strings.TrimSpace(*p.TargetDate) == "" {
			g.TargetDate = nil
		} else if d, err := ParseDate(*p.TargetDate); err != nil {
			v.Add("target_date", err.Error())
		} else {
			day := truncateToDay(d)
			g.TargetDate = &day
		}
	}
	if p.Completed != nil {
		g.Completed = *p.Completed
	}

	if err := g.Validate(); err != nil {
		for field, reason := range err.(*ValidationError).Fields {
			v.Add(field, reason)
		}
	}
	return g, v.errOrNil()
}

type GoalProgressInput struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (in GoalProgressInput) Validate() error {
	v := &ValidationError{}
	if in.Amount == nil {
		v.Add("amount", "is required")
	} else {
		checkAmount(v, "amount", *in.Amount, false)
	}
	return v.errOrNil()
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
