package database

import (
	"context"
	"fmt"

	"github.com/yourusername/matchcast/internal/config"
)

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// ensureSchema applies the table definitions used by the repositories.
// Statements are idempotent so startup is safe against an existing database.
func ensureSchema(ctx context.Context, db *DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			match_date TIMESTAMPTZ NOT NULL,
			competition TEXT NOT NULL DEFAULT '',
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			home_goals INT NOT NULL,
			away_goals INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (match_date, home_team, away_team)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_date ON matches (match_date)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_home_team ON matches (home_team)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_away_team ON matches (away_team)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id UUID PRIMARY KEY,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			predicted INT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			probabilities JSONB NOT NULL,
			window_size INT NOT NULL,
			model_trained_at TIMESTAMPTZ NOT NULL,
			predicted_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_predicted_at ON predictions (predicted_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}
