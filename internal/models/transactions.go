package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type Transaction struct {
	ID          int64           `json:"id" db:"id"`
	UserID      int64           `json:"user_id" db:"user_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
	Category    Category        `json:"category" db:"category"`
	Type        TransactionType `json:"type" db:"type"`
	Date        time.Time       `json:"date" db:"date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

const maxDescriptionLength = 255

func (t Transaction) Validate() error {
	v := &ValidationError{}

	checkAmount(v, "amount", t.Amount, false)
	if len(t.Description) > maxDescriptionLength {
		v.Add("description", "must be at most 255 characters")
	}
	if !t.Category.Valid() {
		v.Add("category", "is not a known category")
	}
	if !t.Type.Valid() {
		v.Add("type", "must be income or expense")
	}
	if t.Date.IsZero() {
		v.Add("date", "is required")
	} else {
		checkDate(v, "date", t.Date)
	}

	return v.errOrNil()
}

// TransactionInput is the request body for create; every field is required
// except description.
type TransactionInput struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	Category    Category         `json:"category"`
	Type        TransactionType  `json:"type"`
	Date        string           `json:"date"`
}

// ToTransaction validates the input and builds an unsaved transaction.
func (in TransactionInput) ToTransaction(userID int64) (Transaction, error) {
	t := Transaction{
		UserID:      userID,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Type:        in.Type,
	}

	v := &ValidationError{}
	if in.Amount == nil {
		v.Add("amount", "is required")
	} else {
		t.Amount = *in.Amount
	}
	if strings.TrimSpace(in.Date) == "" {
		v.Add("date", "is required")
	} else if d, err := ParseDate(in.Date); err != nil {
		v.Add("date", err.Error())
	} else {
		t.Date = d
	}

	if err := t.Validate(); err != nil {
		for field, reason := range err.(*ValidationError).Fields {
			v.Add(field, reason)
		}
	}
	return t, v.errOrNil()
}

// TransactionPatch carries a partial update; nil fields are left unchanged.
type TransactionPatch struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *Category        `json:"category"`
	Type        *TransactionType `json:"type"`
	Date        *string          `json:"date"`
}

func (p TransactionPatch) Empty() bool {
	return p.Amount == nil && p.Description == nil && p.Category == nil && p.Type == nil && p.Date == nil
}

// Apply merges the patch into t and validates the result.
func (p TransactionPatch) Apply(t Transaction) (Transaction, error) {
	v := &ValidationError{}

	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Date != nil {
		d, err := ParseDate(*p.Date)
		if err != nil {
			v.Add("date", err.Error())
		} else {
			t.Date = d
		}
	}

	if err := t.Validate(); err != nil {
		for field, reason := range err.(*ValidationError).Fields {
			v.Add(field, reason)
		}
	}
	return t, v.errOrNil()
}

// TransactionFilter narrows a transaction listing. Zero values mean "no filter".
type TransactionFilter struct {
	Type     TransactionType
	Category Category
	From     time.Time
	To       time.Time
	SortBy   string
	Order    string
	Limit    int
	Offset   int
}
