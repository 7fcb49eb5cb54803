package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/matchcast/internal/database"
	"github.com/yourusername/matchcast/internal/models"
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = "match_date, competition, home_team, away_team, home_goals, away_goals"

// Insert inserts a single match record
func (r *PostgresMatchRepository) Insert(ctx context.Context, match *models.MatchRecord) error {
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_date, home_team, away_team) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.Date, match.Competition, match.HomeTeam, match.AwayTeam, match.HomeGoals, match.AwayGoals,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple match records, skipping rows already present.
// Returns the number of rows actually written.
func (r *PostgresMatchRepository) InsertBatch(ctx context.Context, matches []models.MatchRecord) (int64, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	// ON CONFLICT rules out CopyFrom here, so batch the inserts instead
	var inserted int64
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO matches (` + matchColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (match_date, home_team, away_team) DO NOTHING
		`
		for i := range matches {
			m := &matches[i]
			tag, err := tx.Exec(ctx, query,
				m.Date, m.Competition, m.HomeTeam, m.AwayTeam, m.HomeGoals, m.AwayGoals,
			)
			if err != nil {
				return fmt.Errorf("failed to insert match %s vs %s: %w", m.HomeTeam, m.AwayTeam, err)
			}
			inserted += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// GetAll retrieves all match records ordered by date ascending
func (r *PostgresMatchRepository) GetAll(ctx context.Context) ([]models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		ORDER BY match_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetByTeam retrieves matches a team played in, most recent first
func (r *PostgresMatchRepository) GetByTeam(ctx context.Context, team string, limit int) ([]models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE home_team = $1 OR away_team = $1
		ORDER BY match_date DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, team, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for team %s: %w", team, err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetByDateRange retrieves matches within a date range ordered by date ascending
func (r *PostgresMatchRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE match_date >= $1 AND match_date <= $2
		ORDER BY match_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by date range: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// Count returns the number of stored matches
func (r *PostgresMatchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM matches").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanMatches(rows rowScanner) ([]models.MatchRecord, error) {
	var matches []models.MatchRecord
	for rows.Next() {
		var m models.MatchRecord
		err := rows.Scan(&m.Date, &m.Competition, &m.HomeTeam, &m.AwayTeam, &m.HomeGoals, &m.AwayGoals)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		m.Result = models.ResultFromGoals(m.HomeGoals, m.AwayGoals)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match rows: %w", err)
	}
	return matches, nil
}
