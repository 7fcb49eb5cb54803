package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/matchcast/internal/models"
)

// MatchRepository defines operations for completed match records
type MatchRepository interface {
	// Insert inserts a single match record
	Insert(ctx context.Context, match *models.MatchRecord) error

	// InsertBatch inserts multiple match records efficiently, skipping duplicates
	InsertBatch(ctx context.Context, matches []models.MatchRecord) (int64, error)

	// GetAll retrieves all match records ordered by date ascending
	GetAll(ctx context.Context) ([]models.MatchRecord, error)

	// GetByTeam retrieves matches a team played in, most recent first
	GetByTeam(ctx context.Context, team string, limit int) ([]models.MatchRecord, error)

	// GetByDateRange retrieves matches within a date range ordered by date ascending
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.MatchRecord, error)

	// Count returns the number of stored matches
	Count(ctx context.Context) (int64, error)
}

// PredictionRepository defines operations for served prediction history
type PredictionRepository interface {
	// Insert records a served prediction
	Insert(ctx context.Context, p *models.Prediction) error

	// GetByID retrieves a prediction by its identifier
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)

	// GetRecent retrieves the most recently served predictions
	GetRecent(ctx context.Context, limit int) ([]*models.Prediction, error)
}
