// Package service implements fixture prediction on top of the model
// lifecycle manager: request validation, feature assembly, classification
// and best-effort persistence of served predictions.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchcast/internal/features"
	"github.com/yourusername/matchcast/internal/lifecycle"
	"github.com/yourusername/matchcast/internal/metrics"
	"github.com/yourusername/matchcast/internal/models"
	"github.com/yourusername/matchcast/internal/repository"
)

const (
	// MinWindow and MaxWindow bound the rolling form window accepted from
	// callers.
	MinWindow = 1
	MaxWindow = 50

	// MaxBatchFixtures is the largest batch a single request may carry.
	MaxBatchFixtures = 50

	// lowConfidence is the confidence below which no outcome class holds a
	// majority over the three classes.
	lowConfidence = 0.5
)

// Config controls prediction behaviour.
type Config struct {
	// DefaultWindow is used when a request omits the window.
	DefaultWindow int
	// CacheTTL bounds how long form computations are reused.
	CacheTTL time.Duration
}

// PredictionService serves fixture forecasts from the active model artifact.
// It never trains; staleness and retraining belong to the lifecycle manager.
type PredictionService struct {
	cfg         Config
	manager     *lifecycle.Manager
	cache       *formCache
	predictions repository.PredictionRepository
	logger      *logrus.Logger

	now func() time.Time
}

// NewPredictionService creates a prediction service. The prediction
// repository is optional; when nil, served predictions are not recorded.
func NewPredictionService(cfg Config, manager *lifecycle.Manager, predictions repository.PredictionRepository, logger *logrus.Logger) *PredictionService {
	if cfg.DefaultWindow == 0 {
		cfg.DefaultWindow = 10
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &PredictionService{
		cfg:         cfg,
		manager:     manager,
		cache:       newFormCache(cfg.CacheTTL),
		predictions: predictions,
		logger:      logger,
		now:         time.Now,
	}
}

// Forecast is one served fixture prediction together with the form
// statistics it was derived from.
type Forecast struct {
	HomeTeam       string
	AwayTeam       string
	Predicted      models.Outcome
	Probabilities  map[string]float64
	HomeForm       models.TeamFormSnapshot
	AwayForm       models.TeamFormSnapshot
	Confidence     float64
	Window         int
	ModelTrainedAt time.Time
	GeneratedAt    time.Time
}

// FixtureRequest names the two sides of one fixture to predict.
type FixtureRequest struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// BatchItemError describes one failed fixture within a batch. Failures are
// isolated: one bad fixture never aborts the rest of the batch.
type BatchItemError struct {
	Index    int    `json:"index"`
	HomeTeam string `json:"home_team,omitempty"`
	AwayTeam string `json:"away_team,omitempty"`
	Error    string `json:"error"`
}

// BatchResult aggregates the outcomes of one batch request.
type BatchResult struct {
	Forecasts []*Forecast
	Errors    []BatchItemError
	Requested int
}

// Predict serves a single fixture forecast as of now.
func (s *PredictionService) Predict(ctx context.Context, homeTeam, awayTeam string, window int) (*Forecast, error) {
	timer := prometheus.NewTimer(metrics.PredictionLatency)
	defer timer.ObserveDuration()

	forecast, err := s.predict(ctx, homeTeam, awayTeam, window)
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.PredictionsTotal.WithLabelValues("success").Inc()
	return forecast, nil
}

func (s *PredictionService) predict(ctx context.Context, homeTeam, awayTeam string, window int) (*Forecast, error) {
	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)
	if homeTeam == "" || awayTeam == "" {
		return nil, fmt.Errorf("both home_team and away_team are required: %w", models.ErrValidation)
	}

	window, err := s.resolveWindow(window)
	if err != nil {
		return nil, err
	}

	artifact, err := s.manager.Active()
	if err != nil {
		return nil, err
	}

	now := s.now()
	asm, err := s.assemble(artifact, homeTeam, awayTeam, now, window)
	if err != nil {
		return nil, err
	}

	probs, err := artifact.Forest.PredictProba(asm.Vector.Columns())
	if err != nil {
		return nil, fmt.Errorf("classifying fixture: %w", err)
	}

	forecast := &Forecast{
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		Predicted: argmaxOutcome(probs),
		Probabilities: map[string]float64{
			"home_win": probs[models.HomeWin],
			"draw":     probs[models.Draw],
			"away_win": probs[models.AwayWin],
		},
		HomeForm:       asm.HomeForm,
		AwayForm:       asm.AwayForm,
		Confidence:     maxProb(probs),
		Window:         window,
		ModelTrainedAt: artifact.TrainedAt,
		GeneratedAt:    now,
	}

	s.record(ctx, forecast)
	return forecast, nil
}

// PredictBatch serves up to MaxBatchFixtures forecasts with one shared
// window. Individual fixture failures are collected, not propagated.
func (s *PredictionService) PredictBatch(ctx context.Context, fixtures []FixtureRequest, window int) (*BatchResult, error) {
	metrics.BatchPredictionsTotal.Inc()

	if len(fixtures) == 0 {
		return nil, fmt.Errorf("matches array required: %w", models.ErrValidation)
	}
	if len(fixtures) > MaxBatchFixtures {
		return nil, fmt.Errorf("maximum %d matches per request: %w", MaxBatchFixtures, models.ErrValidation)
	}

	result := &BatchResult{Requested: len(fixtures)}
	for i, fixture := range fixtures {
		forecast, err := s.Predict(ctx, fixture.HomeTeam, fixture.AwayTeam, window)
		if err != nil {
			result.Errors = append(result.Errors, BatchItemError{
				Index:    i,
				HomeTeam: fixture.HomeTeam,
				AwayTeam: fixture.AwayTeam,
				Error:    err.Error(),
			})
			continue
		}
		result.Forecasts = append(result.Forecasts, forecast)
	}

	return result, nil
}

// TeamForm returns one team's rolling form snapshot as of now.
func (s *PredictionService) TeamForm(ctx context.Context, team string, window int) (models.TeamFormSnapshot, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return models.TeamFormSnapshot{}, fmt.Errorf("team name is required: %w", models.ErrValidation)
	}

	window, err := s.resolveWindow(window)
	if err != nil {
		return models.TeamFormSnapshot{}, err
	}

	artifact, err := s.manager.Active()
	if err != nil {
		return models.TeamFormSnapshot{}, err
	}

	now := s.now()
	key := formKey{Generation: artifact.Generation, Home: team, Window: window, Day: now.Format("2006-01-02")}
	if snap, found := s.cache.GetForm(key); found {
		return snap, nil
	}

	snap, err := artifact.Assembler().Form(team, now, window)
	if err != nil {
		return models.TeamFormSnapshot{}, err
	}

	s.cache.SetForm(key, snap)
	return snap, nil
}

// Teams returns the names the active model can predict, in sorted order.
func (s *PredictionService) Teams() ([]string, error) {
	artifact, err := s.manager.Active()
	if err != nil {
		return nil, err
	}
	return artifact.Encoding.Teams(), nil
}

// Retrain triggers a synchronous retrain and reports the refreshed team
// count.
func (s *PredictionService) Retrain(ctx context.Context) (int, error) {
	if err := s.manager.Retrain(ctx); err != nil {
		return 0, err
	}
	artifact, err := s.manager.Active()
	if err != nil {
		return 0, err
	}
	return artifact.TeamCount(), nil
}

// Status reports whether a model is loaded and how many teams it knows.
func (s *PredictionService) Status() (loaded bool, teams int) {
	artifact, err := s.manager.Active()
	if err != nil {
		return false, 0
	}
	return true, artifact.TeamCount()
}

func (s *PredictionService) resolveWindow(window int) (int, error) {
	if window == 0 {
		return s.cfg.DefaultWindow, nil
	}
	if window < MinWindow || window > MaxWindow {
		return 0, fmt.Errorf("window must be an integer between %d and %d: %w", MinWindow, MaxWindow, models.ErrValidation)
	}
	return window, nil
}

func (s *PredictionService) assemble(artifact *lifecycle.Artifact, homeTeam, awayTeam string, now time.Time, window int) (features.Assembled, error) {
	key := formKey{
		Generation: artifact.Generation,
		Home:       homeTeam,
		Away:       awayTeam,
		Window:     window,
		Day:        now.Format("2006-01-02"),
	}
	if asm, found := s.cache.GetAssembled(key); found {
		return asm, nil
	}

	asm, err := artifact.Assembler().Assemble(homeTeam, awayTeam, now, window)
	if err != nil {
		return features.Assembled{}, err
	}

	s.cache.SetAssembled(key, asm)
	return asm, nil
}

// record persists a served forecast when a repository is configured.
// Persistence is best effort and never fails the request.
func (s *PredictionService) record(ctx context.Context, f *Forecast) {
	if s.predictions == nil {
		return
	}

	probs, err := json.Marshal(f.Probabilities)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode prediction probabilities")
		return
	}

	p := &models.Prediction{
		ID:             uuid.New(),
		HomeTeam:       f.HomeTeam,
		AwayTeam:       f.AwayTeam,
		Predicted:      f.Predicted,
		Confidence:     f.Confidence,
		Probabilities:  probs,
		Window:         f.Window,
		ModelTrainedAt: f.ModelTrainedAt,
		PredictedAt:    f.GeneratedAt,
	}
	if !p.MeetsThreshold(lowConfidence) {
		s.logger.WithFields(logrus.Fields{
			"home_team":  p.HomeTeam,
			"away_team":  p.AwayTeam,
			"confidence": p.Confidence,
		}).Debug("Recording prediction without a majority class")
	}

	if err := s.predictions.Insert(ctx, p); err != nil {
		s.logger.WithError(err).Warn("Failed to record served prediction")
	}
}

func argmaxOutcome(probs []float64) models.Outcome {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return models.Outcome(best)
}

func maxProb(probs []float64) float64 {
	best := 0.0
	for _, p := range probs {
		if p > best {
			best = p
		}
	}
	return best
}
