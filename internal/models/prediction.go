package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Prediction represents one served fixture prediction, kept for later
// inspection when a database is configured.
type Prediction struct {
	ID             uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	HomeTeam       string          `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam       string          `db:"away_team" json:"away_team" validate:"required"`
	Predicted      Outcome         `db:"predicted" json:"predicted"`
	Confidence     float64         `db:"confidence" json:"confidence" validate:"required,gte=0,lte=1"`
	Probabilities  json.RawMessage `db:"probabilities" json:"probabilities"`
	Window         int             `db:"window" json:"window" validate:"required,gte=1,lte=50"`
	ModelTrainedAt time.Time       `db:"model_trained_at" json:"model_trained_at"`
	PredictedAt    time.Time       `db:"predicted_at" json:"predicted_at" validate:"required"`
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}
