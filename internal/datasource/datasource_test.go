package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/matchcast/internal/config"
	"github.com/yourusername/matchcast/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeMatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceParsesCompletedMatches(t *testing.T) {
	path := writeMatchFile(t, `[
		{"date": "2024-08-10", "home_team": "Arsenal", "away_team": "Chelsea", "score": [2, 0]},
		{"date": "2024-08-17", "home_team": "Chelsea", "away_team": "Spurs", "score": "SCHEDULED"},
		{"date": "2024-08-24T15:00:00Z", "home_team": "Spurs", "away_team": "Arsenal", "score": [1, 1]}
	]`)

	source := NewFileSource(path, testLogger())
	assert.Equal(t, "file", source.Name())

	matches, err := source.FetchMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "Arsenal", matches[0].HomeTeam)
	assert.Equal(t, 2, matches[0].HomeGoals)
	assert.Equal(t, models.HomeWin, matches[0].Result)

	assert.Equal(t, "Spurs", matches[1].HomeTeam)
	assert.Equal(t, models.Draw, matches[1].Result)
}

func TestFileSourceRejectsBadDate(t *testing.T) {
	path := writeMatchFile(t, `[
		{"date": "10/08/2024", "home_team": "Arsenal", "away_team": "Chelsea", "score": [2, 0]}
	]`)

	source := NewFileSource(path, testLogger())
	_, err := source.FetchMatches(context.Background())
	assert.Error(t, err)
}

func TestFileSourceMissingFile(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "missing.json"), testLogger())
	_, err := source.FetchMatches(context.Background())
	assert.Error(t, err)
}

func TestFootballAPISourceFetchesFinishedMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions/PL/matches", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("season"))
		assert.Equal(t, "test-key", r.Header.Get("X-Auth-Token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches": [
			{
				"utcDate": "2024-08-10T14:00:00Z",
				"status": "FINISHED",
				"homeTeam": {"name": "Arsenal"},
				"awayTeam": {"name": "Chelsea"},
				"score": {"fullTime": {"home": 3, "away": 1}}
			},
			{
				"utcDate": "2024-08-17T14:00:00Z",
				"status": "SCHEDULED",
				"homeTeam": {"name": "Chelsea"},
				"awayTeam": {"name": "Spurs"},
				"score": {"fullTime": {"home": null, "away": null}}
			}
		]}`))
	}))
	defer server.Close()

	apiCfg := config.ResultsAPIConfig{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		Competitions: []string{"PL"},
		Season:       2024,
	}
	client := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), testLogger())
	source := NewFootballAPISource(apiCfg, client, testLogger())

	matches, err := source.FetchMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Arsenal", matches[0].HomeTeam)
	assert.Equal(t, "PL", matches[0].Competition)
	assert.Equal(t, models.HomeWin, matches[0].Result)
}

func TestFootballAPISourceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	apiCfg := config.ResultsAPIConfig{
		BaseURL:      server.URL,
		APIKey:       "bad-key",
		Competitions: []string{"PL"},
	}
	client := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), testLogger())
	source := NewFootballAPISource(apiCfg, client, testLogger())

	_, err := source.FetchMatches(context.Background())
	assert.Error(t, err)
}

func TestNewMatchSourceFile(t *testing.T) {
	path := writeMatchFile(t, `[]`)
	cfg := &config.Config{}
	cfg.Data.Source = "file"
	cfg.Data.MatchFile = path

	source, err := NewMatchSource(cfg, nil, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "file", source.Name())
}

func TestNewMatchSourceUnknown(t *testing.T) {
	cfg := &config.Config{}
	cfg.Data.Source = "carrier-pigeon"

	_, err := NewMatchSource(cfg, nil, testLogger())
	assert.Error(t, err)
}

func TestNewMatchSourcePostgresRequiresDB(t *testing.T) {
	cfg := &config.Config{}
	cfg.Data.Source = "postgres"

	_, err := NewMatchSource(cfg, nil, testLogger())
	assert.Error(t, err)
}
