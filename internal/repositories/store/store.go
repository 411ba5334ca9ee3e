// Package store is the SQL persistence layer. Every query on an owned entity
// carries the caller's user id in its predicate.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/config"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var ErrNotFound = errors.New("not found")

// DuplicateError reports a unique-index violation on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	switch e.Field {
	case "budget":
		return "a budget for this category and month already exists"
	default:
		return e.Field + " already exists"
	}
}

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

type Store struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func New(db *sql.DB, dialect string) *Store {
	return &Store{db: db, dialect: dialect, now: time.Now}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// timestamp is the current time at the precision the schema stores.
func (s *Store) timestamp() time.Time {
	return s.now().Truncate(time.Second)
}

func formatTime(t time.Time) string {
	return t.In(time.Local).Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	// MySQL may hand back fractional seconds or a trailing zone on some setups
	if len(raw) > len(timeLayout) {
		raw = raw[:len(timeLayout)]
	}
	t, err := time.ParseInLocation(timeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t, nil
}

func parseDate(raw string) (time.Time, error) {
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// classifyDuplicate turns a driver unique-constraint error into a DuplicateError.
func classifyDuplicate(err error) error {
	if err == nil {
		return nil
	}

	isDuplicate := false
	var mysqlErr *mysql.MySQLError
	var sqliteErr *sqlite.Error
	switch {
	case errors.As(err, &mysqlErr):
		isDuplicate = mysqlErr.Number == 1062
	case errors.As(err, &sqliteErr):
		code := sqliteErr.Code()
		isDuplicate = code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), "UNIQUE constraint failed"))
	}
	if !isDuplicate {
		return err
	}

	// match on the index name only; the offending value is part of the message too
	msg := err.Error()
	if i := strings.LastIndex(msg, "for key "); i >= 0 {
		msg = msg[i:]
	} else if i := strings.Index(msg, "UNIQUE constraint failed: "); i >= 0 {
		msg = msg[i:]
	}
	switch {
	case strings.Contains(msg, "budgets"):
		return &DuplicateError{Field: "budget"}
	case strings.Contains(msg, "username"):
		return &DuplicateError{Field: "username"}
	case strings.Contains(msg, "email"):
		return &DuplicateError{Field: "email"}
	default:
		return &DuplicateError{Field: "record"}
	}
}

// affectedOrNotFound maps a zero row count on an owned write to ErrNotFound.
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) isMySQL() bool {
	return s.dialect == config.DriverMySQL
}
