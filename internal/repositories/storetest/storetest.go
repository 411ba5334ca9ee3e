// Package storetest opens migrated SQLite stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/repositories/sqlconnect"
	"fintrack/internal/repositories/store"
)

// New returns a store backed by a fresh SQLite file in t.TempDir.
func New(t testing.TB) *store.Store {
	t.Helper()

	cfg := config.Database{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "fintrack_test.db"),
	}
	if err := sqlconnect.RunMigrations(cfg); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	db, err := sqlconnect.ConnectDb(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return store.New(db, config.DriverSQLite)
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t testing.TB, s *store.Store, username string) models.User {
	t.Helper()

	u := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     username + "@example.com",
		Username:  username,
		Password:  "c2FsdA==.aGFzaA==",
	}
	if err := s.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}
