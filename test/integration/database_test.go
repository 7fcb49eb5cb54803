//go:build integration

package integration

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/matchcast/internal/database"
	"github.com/yourusername/matchcast/internal/models"
	"github.com/yourusername/matchcast/internal/repository"
)

const skipIntegration = "Skipping integration test in short mode"

// uniqueTeam returns a team name that cannot collide with rows left over
// from earlier runs.
func uniqueTeam(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String()[:8])
}

func cleanupTeams(t *testing.T, db *database.DB, teams ...string) {
	t.Helper()
	ctx := context.Background()
	for _, team := range teams {
		_, err := db.GetPool().Exec(ctx,
			"DELETE FROM matches WHERE home_team = $1 OR away_team = $1", team)
		require.NoError(t, err)
	}
}

// TestDatabaseRepositoryIntegration tests the match repository against a
// real PostgreSQL instance.
func TestDatabaseRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	t.Run("InsertBatchSkipsDuplicates", func(t *testing.T) {
		repo := repository.NewPostgresMatchRepository(db)
		home := uniqueTeam("home")
		away := uniqueTeam("away")
		defer cleanupTeams(t, db, home, away)

		date := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
		batch := []models.MatchRecord{
			{Date: date, HomeTeam: home, AwayTeam: away, HomeGoals: 2, AwayGoals: 1},
			{Date: date.AddDate(0, 0, 7), HomeTeam: away, AwayTeam: home, HomeGoals: 0, AwayGoals: 0},
		}

		inserted, err := repo.InsertBatch(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, int64(2), inserted)

		// Re-ingesting the same fixtures writes nothing
		inserted, err = repo.InsertBatch(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, int64(0), inserted)
	})

	t.Run("InsertBatchRollsBackOnFailure", func(t *testing.T) {
		repo := repository.NewPostgresMatchRepository(db)
		home := uniqueTeam("home")
		away := uniqueTeam("away")
		defer cleanupTeams(t, db, home, away)

		date := time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC)
		batch := []models.MatchRecord{
			{Date: date, HomeTeam: home, AwayTeam: away, HomeGoals: 1, AwayGoals: 0},
			{Date: date.AddDate(0, 0, 7), HomeTeam: away, AwayTeam: home, HomeGoals: 2, AwayGoals: 2},
			// home_goals overflows the INT column, failing mid-batch
			{Date: date.AddDate(0, 0, 14), HomeTeam: home, AwayTeam: away, HomeGoals: math.MaxInt32 + 1, AwayGoals: 0},
		}

		inserted, err := repo.InsertBatch(ctx, batch)
		require.Error(t, err)
		assert.Equal(t, int64(0), inserted)

		// The rows inserted before the failure must have been rolled back
		stored, err := repo.GetByTeam(ctx, home, 10)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("WithTransactionRollsBackOnError", func(t *testing.T) {
		home := uniqueTeam("home")
		away := uniqueTeam("away")
		defer cleanupTeams(t, db, home, away)

		date := time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC)
		txErr := fmt.Errorf("forced failure")

		err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
			_, execErr := tx.Exec(ctx, `
				INSERT INTO matches (match_date, competition, home_team, away_team, home_goals, away_goals)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, date, "PL", home, away, 3, 1)
			require.NoError(t, execErr)
			return txErr
		})
		require.ErrorIs(t, err, txErr)

		repo := repository.NewPostgresMatchRepository(db)
		stored, err := repo.GetByTeam(ctx, home, 10)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("WithTransactionCommitsOnSuccess", func(t *testing.T) {
		home := uniqueTeam("home")
		away := uniqueTeam("away")
		defer cleanupTeams(t, db, home, away)

		date := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
		err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
			_, execErr := tx.Exec(ctx, `
				INSERT INTO matches (match_date, competition, home_team, away_team, home_goals, away_goals)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, date, "PL", home, away, 1, 1)
			return execErr
		})
		require.NoError(t, err)

		repo := repository.NewPostgresMatchRepository(db)
		stored, err := repo.GetByTeam(ctx, home, 10)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, models.Draw, stored[0].Result)
	})
}
