// Package lifecycle owns the trained artifact: deciding when it is stale,
// retraining it, persisting it atomically and exposing a consistent snapshot
// to concurrent prediction requests.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchcast/internal/features"
	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/metrics"
	"github.com/yourusername/matchcast/internal/models"
	"github.com/yourusername/matchcast/internal/training"
)

// MatchSource supplies raw match records for ledger construction.
type MatchSource interface {
	Name() string
	FetchMatches(ctx context.Context) ([]models.MatchRecord, error)
}

// Config controls staleness and retraining.
type Config struct {
	// RetrainInterval is how old a trained artifact may get before it is
	// considered stale.
	RetrainInterval time.Duration
	// Training configures the pipeline used on every (re)train.
	Training training.Config
}

// Manager is the model lifecycle manager. All readers obtain the active
// artifact through Active(); retraining builds a complete new artifact off
// to the side and installs it with a single atomic swap, so requests never
// observe a half-updated triple.
type Manager struct {
	cfg    Config
	store  *Store
	source MatchSource
	logger *logrus.Logger

	active  atomic.Pointer[Artifact]
	trainMu sync.Mutex
	gen     atomic.Uint64

	now func() time.Time
}

// NewManager creates a lifecycle manager.
func NewManager(cfg Config, store *Store, source MatchSource, logger *logrus.Logger) *Manager {
	if cfg.RetrainInterval <= 0 {
		cfg.RetrainInterval = 48 * time.Hour
	}
	return &Manager{
		cfg:    cfg,
		store:  store,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Active returns the currently active artifact. ErrNoArtifact is returned
// before the first successful Load or Retrain.
func (m *Manager) Active() (*Artifact, error) {
	artifact := m.active.Load()
	if artifact == nil {
		return nil, models.ErrNoArtifact
	}
	return artifact, nil
}

// Stale reports whether the active artifact needs retraining: either none
// exists, or its training timestamp has aged past the retrain interval.
func (m *Manager) Stale() bool {
	artifact := m.active.Load()
	if artifact == nil {
		return true
	}
	return m.now().Sub(artifact.TrainedAt) >= m.cfg.RetrainInterval
}

// Load initialises the manager: a fresh persisted artifact is deserialized
// and activated; a missing, corrupt or stale one triggers a synchronous
// train-and-persist instead. Corruption is deliberately treated the same as
// absence.
func (m *Manager) Load(ctx context.Context) error {
	artifact, err := m.store.Load()
	switch {
	case err == nil:
		if m.now().Sub(artifact.TrainedAt) < m.cfg.RetrainInterval {
			m.install(artifact)
			m.logger.WithFields(logrus.Fields{
				"teams":      artifact.TeamCount(),
				"matches":    artifact.MatchCount(),
				"trained_at": artifact.TrainedAt.Format(time.RFC3339),
			}).Info("Loaded persisted model")
			return nil
		}
		m.logger.WithField("trained_at", artifact.TrainedAt.Format(time.RFC3339)).
			Info("Persisted model is stale, retraining")
	case errors.Is(err, models.ErrNoArtifact):
		m.logger.Info("No persisted model found, training a new one")
	case errors.Is(err, models.ErrCorruptArtifact):
		m.logger.WithError(err).Warn("Persisted model is corrupt, retraining from scratch")
	default:
		return fmt.Errorf("loading persisted artifact: %w", err)
	}

	return m.Retrain(ctx)
}

// Retrain fetches the current ledger, runs the training pipeline, persists
// the new artifact as one atomic unit and swaps it in. The manual endpoint
// and the scheduled background check share this path; concurrent calls are
// serialized while prediction requests keep reading the previous artifact.
func (m *Manager) Retrain(ctx context.Context) error {
	m.trainMu.Lock()
	defer m.trainMu.Unlock()

	start := m.now()
	m.logger.WithField("source", m.source.Name()).Info("Training new model")

	records, err := m.source.FetchMatches(ctx)
	if err != nil {
		metrics.RetrainsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("fetching match records: %w", err)
	}

	l := ledger.New(records, start)
	pipeline := training.NewPipeline(m.cfg.Training, m.logger)
	result, err := pipeline.Run(l)
	if err != nil {
		metrics.RetrainsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("training pipeline: %w", err)
	}

	artifact := &Artifact{
		Forest:        result.Forest,
		Ledger:        l,
		Encoding:      result.Encoding,
		TrainedAt:     start,
		NextRetrainAt: start.Add(m.cfg.RetrainInterval),
		assembler:     features.NewAssembler(l, result.Encoding),
	}

	if err := m.store.Save(artifact); err != nil {
		metrics.RetrainsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("persisting trained artifact: %w", err)
	}

	m.install(artifact)

	duration := m.now().Sub(start)
	metrics.RetrainsTotal.WithLabelValues("success").Inc()
	metrics.RetrainDuration.Observe(duration.Seconds())
	metrics.ModelTeams.Set(float64(artifact.TeamCount()))
	metrics.ModelMatches.Set(float64(artifact.MatchCount()))

	m.logger.WithFields(logrus.Fields{
		"teams":        artifact.TeamCount(),
		"matches":      artifact.MatchCount(),
		"train_rows":   result.TrainCount,
		"test_rows":    result.TestCount,
		"accuracy":     fmt.Sprintf("%.3f", result.TestAccuracy),
		"duration":     duration.String(),
		"next_retrain": artifact.NextRetrainAt.Format(time.RFC3339),
	}).Info("Model trained and persisted")

	return nil
}

// RetrainIfStale runs a retrain only when the staleness policy says so. This
// is the scheduled-path entry point; failures are logged by the caller and
// never revoke the active artifact.
func (m *Manager) RetrainIfStale(ctx context.Context) error {
	if !m.Stale() {
		return nil
	}
	m.logger.Info("Automatic retraining triggered")
	return m.Retrain(ctx)
}

func (m *Manager) install(artifact *Artifact) {
	artifact.Generation = m.gen.Add(1)
	m.active.Store(artifact)
}
