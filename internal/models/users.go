package models

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// Normalize lower-cases the identifiers and trims names.
func (r *SignupRequest) Normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r SignupRequest) Validate() error {
	v := &ValidationError{}

	if !usernamePattern.MatchString(r.Username) {
		v.Add("username", "must be 3-30 characters of a-z, 0-9, '_' or '.'")
	}
	if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		v.Add("email", "must be a valid email address")
	}
	if len(r.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	} else if len(r.Password) > 128 {
		v.Add("password", "must be at most 128 characters")
	}
	if r.FirstName == "" {
		v.Add("first_name", "is required")
	} else if len(r.FirstName) > 100 {
		v.Add("first_name", "must be at most 100 characters")
	}
	if r.LastName == "" {
		v.Add("last_name", "is required")
	} else if len(r.LastName) > 100 {
		v.Add("last_name", "must be at most 100 characters")
	}

	return v.errOrNil()
}

type LoginRequest struct {
	AccountID string `json:"account_id"`
	Password  string `json:"password"`
}
