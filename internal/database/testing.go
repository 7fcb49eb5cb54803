package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/matchcast/internal/config"
)

// SetupTestDB connects to the test database and ensures the schema exists.
// The test is skipped when no test database configuration is present.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg, err := config.Load("../../config/config.yaml.test")
	if err != nil {
		t.Skipf("test database config not available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to ensure test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
