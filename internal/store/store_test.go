package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	db, err := NewTestDB(sqlDB)
	if err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateKey, s)
	if err != nil {
		t.Fatalf("Failed to parse day %q: %v", s, err)
	}
	return d
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
