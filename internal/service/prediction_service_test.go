package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/matchcast/internal/classifier"
	"github.com/yourusername/matchcast/internal/lifecycle"
	"github.com/yourusername/matchcast/internal/models"
	"github.com/yourusername/matchcast/internal/training"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func day(offset int) time.Time {
	return time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

type stubSource struct {
	records []models.MatchRecord
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchMatches(ctx context.Context) ([]models.MatchRecord, error) {
	return s.records, nil
}

func seasonRecords(n int) []models.MatchRecord {
	teams := []string{"Alpha", "Bravo", "Charlie", "Delta"}
	records := make([]models.MatchRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.MatchRecord{
			Date:      day(i - n),
			HomeTeam:  teams[i%len(teams)],
			AwayTeam:  teams[(i+1)%len(teams)],
			HomeGoals: i % 3,
			AwayGoals: (i + 1) % 2,
		})
	}
	return records
}

func trainedService(t *testing.T) *PredictionService {
	t.Helper()

	store, err := lifecycle.NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := lifecycle.Config{
		RetrainInterval: 48 * time.Hour,
		Training: training.Config{
			Window:     10,
			SplitDate:  day(-5),
			Classifier: classifier.Config{NumTrees: 5, MinSamplesSplit: 2, Seed: 42},
		},
	}
	manager := lifecycle.NewManager(cfg, store, &stubSource{records: seasonRecords(40)}, quietLogger())
	require.NoError(t, manager.Load(context.Background()))

	return NewPredictionService(Config{DefaultWindow: 10, CacheTTL: time.Minute}, manager, nil, quietLogger())
}

func TestPredictKnownFixture(t *testing.T) {
	svc := trainedService(t)

	forecast, err := svc.Predict(context.Background(), "Alpha", "Bravo", 0)
	require.NoError(t, err)

	assert.Equal(t, "Alpha", forecast.HomeTeam)
	assert.Equal(t, "Bravo", forecast.AwayTeam)
	assert.Equal(t, 10, forecast.Window)
	assert.True(t, forecast.Predicted.Valid())

	total := forecast.Probabilities["home_win"] + forecast.Probabilities["draw"] + forecast.Probabilities["away_win"]
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.InDelta(t, forecast.Confidence, maxProb([]float64{
		forecast.Probabilities["away_win"],
		forecast.Probabilities["home_win"],
		forecast.Probabilities["draw"],
	}), 1e-12)
	assert.Greater(t, forecast.HomeForm.MatchesConsidered, 0)
}

func TestPredictUnknownTeam(t *testing.T) {
	svc := trainedService(t)

	_, err := svc.Predict(context.Background(), "Alpha", "Zeta Wanderers", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownTeam))
}

func TestPredictValidation(t *testing.T) {
	svc := trainedService(t)

	_, err := svc.Predict(context.Background(), "", "Bravo", 0)
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = svc.Predict(context.Background(), "Alpha", "Bravo", 51)
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = svc.Predict(context.Background(), "Alpha", "Bravo", -1)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestPredictDeterministicWithinGeneration(t *testing.T) {
	svc := trainedService(t)

	first, err := svc.Predict(context.Background(), "Alpha", "Bravo", 5)
	require.NoError(t, err)
	second, err := svc.Predict(context.Background(), "Alpha", "Bravo", 5)
	require.NoError(t, err)

	assert.Equal(t, first.Predicted, second.Predicted)
	assert.Equal(t, first.Probabilities, second.Probabilities)
	assert.Equal(t, first.HomeForm, second.HomeForm)
}

func TestPredictBatchPartialFailure(t *testing.T) {
	svc := trainedService(t)

	result, err := svc.PredictBatch(context.Background(), []FixtureRequest{
		{HomeTeam: "Alpha", AwayTeam: "Bravo"},
		{HomeTeam: "Alpha", AwayTeam: "Nowhere FC"},
		{HomeTeam: "", AwayTeam: "Delta"},
		{HomeTeam: "Charlie", AwayTeam: "Delta"},
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Requested)
	assert.Len(t, result.Forecasts, 2)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, 2, result.Errors[1].Index)
}

func TestPredictBatchLimits(t *testing.T) {
	svc := trainedService(t)

	_, err := svc.PredictBatch(context.Background(), nil, 0)
	assert.True(t, errors.Is(err, models.ErrValidation))

	oversized := make([]FixtureRequest, MaxBatchFixtures+1)
	for i := range oversized {
		oversized[i] = FixtureRequest{HomeTeam: "Alpha", AwayTeam: "Bravo"}
	}
	_, err = svc.PredictBatch(context.Background(), oversized, 0)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestTeamFormKnownTeam(t *testing.T) {
	svc := trainedService(t)

	snap, err := svc.TeamForm(context.Background(), "Alpha", 0)
	require.NoError(t, err)
	assert.Greater(t, snap.MatchesConsidered, 0)

	// Second read comes from the cache and must be identical.
	cached, err := svc.TeamForm(context.Background(), "Alpha", 0)
	require.NoError(t, err)
	assert.Equal(t, snap, cached)
}

func TestTeamFormUnknownTeam(t *testing.T) {
	svc := trainedService(t)

	_, err := svc.TeamForm(context.Background(), "Nowhere FC", 0)
	assert.True(t, errors.Is(err, models.ErrUnknownTeam))
}

func TestTeamsSorted(t *testing.T) {
	svc := trainedService(t)

	teams, err := svc.Teams()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie", "Delta"}, teams)
}

func TestStatusAndRetrain(t *testing.T) {
	svc := trainedService(t)

	loaded, teams := svc.Status()
	assert.True(t, loaded)
	assert.Equal(t, 4, teams)

	count, err := svc.Retrain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
