package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/matchcast/internal/database"
	"github.com/yourusername/matchcast/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

const predictionColumns = "id, home_team, away_team, predicted, confidence, probabilities, window_size, model_trained_at, predicted_at"

// Insert records a served prediction
func (r *PostgresPredictionRepository) Insert(ctx context.Context, p *models.Prediction) error {
	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		p.ID, p.HomeTeam, p.AwayTeam, int(p.Predicted), p.Confidence,
		p.Probabilities, p.Window, p.ModelTrainedAt, p.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// GetByID retrieves a prediction by its identifier
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE id = $1
	`

	p, err := scanPrediction(r.db.GetPool().QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query prediction: %w", err)
	}

	return p, nil
}

// GetRecent retrieves the most recently served predictions
func (r *PostgresPredictionRepository) GetRecent(ctx context.Context, limit int) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		ORDER BY predicted_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prediction rows: %w", err)
	}

	return predictions, nil
}

type singleScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row singleScanner) (*models.Prediction, error) {
	p := &models.Prediction{}
	var predicted int
	err := row.Scan(
		&p.ID, &p.HomeTeam, &p.AwayTeam, &predicted, &p.Confidence,
		&p.Probabilities, &p.Window, &p.ModelTrainedAt, &p.PredictedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Predicted = models.Outcome(predicted)
	return p, nil
}
