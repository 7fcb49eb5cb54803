package datasource

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchcast/internal/models"
	"github.com/yourusername/matchcast/internal/repository"
)

// PostgresSource reads completed matches from the database, typically after
// an earlier ingestion run has populated it.
type PostgresSource struct {
	matches repository.MatchRepository
	logger  *logrus.Logger
}

// NewPostgresSource creates a database-backed match source
func NewPostgresSource(matches repository.MatchRepository, logger *logrus.Logger) *PostgresSource {
	return &PostgresSource{matches: matches, logger: logger}
}

// Name identifies the source
func (s *PostgresSource) Name() string {
	return "postgres"
}

// FetchMatches retrieves all stored matches
func (s *PostgresSource) FetchMatches(ctx context.Context) ([]models.MatchRecord, error) {
	matches, err := s.matches.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches from database: %w", err)
	}

	s.logger.WithField("matches", len(matches)).Info("Loaded matches from database")
	return matches, nil
}
