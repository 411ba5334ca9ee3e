package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError collects field-level problems found before a write.
type ValidationError struct {
	Fields map[string]string `json:"details"`
}

func (v *ValidationError) Add(field, reason string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, exists := v.Fields[field]; !exists {
		v.Fields[field] = reason
	}
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// errOrNil keeps callers from returning a typed nil inside an error interface.
func (v *ValidationError) errOrNil() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

// MaxAmount is the largest value a DECIMAL(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

func checkAmount(v *ValidationError, field string, amount decimal.Decimal, allowZero bool) {
	switch {
	case amount.IsNegative():
		v.Add(field, "must not be negative")
	case amount.IsZero() && !allowZero:
		v.Add(field, "must be greater than 0")
	case amount.GreaterThan(MaxAmount):
		v.Add(field, "is too large")
	case !amount.Equal(amount.Round(2)):
		v.Add(field, "must have at most 2 decimal places")
	}
}

const (
	minDateYear = 1900
	maxDateYear = 2100
)

func checkDate(v *ValidationError, field string, d time.Time) {
	if d.Year() < minDateYear || d.Year() > maxDateYear {
		v.Add(field, "year must be between 1900 and 2100")
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts a calendar date or a timestamp and returns it in local wall-clock
// time. Timestamps carrying an offset are converted to local time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t.In(time.Local), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", s)
}
