package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/models"
)

const userColumns = `id, first_name, last_name, email, username, password, created_at`

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.CreatedAt = s.timestamp()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, username, password, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.FirstName, u.LastName, u.Email, u.Username, u.Password, formatTime(u.CreatedAt))
	if err != nil {
		return classifyDuplicate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	u.ID = id
	return nil
}

// GetUserByAccount looks a user up by username or email.
func (s *Store) GetUserByAccount(ctx context.Context, account string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ? LIMIT 1`,
		account, account)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		u         models.User
		createdAt string
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username, &u.Password, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.User{}, err
	}
	return u, nil
}
