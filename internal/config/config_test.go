package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "matchcast",
			Environment: "development",
			LogLevel:    "info",
		},
		Server: ServerConfig{
			Port:                5001,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
		},
		Model: ModelConfig{
			ArtifactDir:          "data/model",
			RetrainIntervalDays:  2,
			CheckIntervalMinutes: 60,
			DefaultWindow:        10,
			SplitDate:            "2025-07-01",
			Trees:                50,
			MinSamplesSplit:      10,
			Seed:                 42,
			FormCacheTTLSeconds:  60,
		},
		Data: DataConfig{
			Source:    "file",
			MatchFile: "data/matches.json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "chaos"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.App.LogLevel = "loud"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsWindowOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Model.DefaultWindow = 51
	assert.Error(t, Validate(cfg))

	cfg.Model.DefaultWindow = 0
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadSplitDate(t *testing.T) {
	cfg := validConfig()
	cfg.Model.SplitDate = "July 1st"
	assert.Error(t, Validate(cfg))
}

func TestValidateFileSourceNeedsMatchFile(t *testing.T) {
	cfg := validConfig()
	cfg.Data.MatchFile = ""
	assert.Error(t, Validate(cfg))
}

func TestValidatePostgresSourceNeedsDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Data.Source = "postgres"
	assert.Error(t, Validate(cfg))

	cfg.Database = DatabaseConfig{
		Enabled:        true,
		Host:           "localhost",
		Port:           5432,
		Name:           "matchcast",
		User:           "matchcast",
		Password:       "secret",
		SSLMode:        "disable",
		MaxConnections: 10,
	}
	assert.NoError(t, Validate(cfg))
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "matchcast", cfg.App.Name)
	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Model.RetrainIntervalDays)
	assert.Equal(t, 10, cfg.Model.DefaultWindow)
	assert.Equal(t, "file", cfg.Data.Source)
	assert.NoError(t, Validate(cfg))
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  name: matchcast
  environment: development
  log_level: info
server:
  port: 5001
  read_timeout_seconds: 10
  write_timeout_seconds: 30
model:
  artifact_dir: data/model
  retrain_interval_days: 2
  check_interval_minutes: 60
  default_window: 10
  split_date: "2025-07-01"
  trees: 50
  min_samples_split: 10
  seed: 42
  form_cache_ttl_seconds: 60
data:
  source: file
  match_file: ${MATCH_FILE_PATH}
metrics:
  enabled: true
  path: /metrics
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("MATCH_FILE_PATH", "/srv/data/matches.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data/matches.json", cfg.Data.MatchFile)
}

func TestRetrainIntervalConversion(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 48.0, cfg.RetrainInterval().Hours())

	split, err := cfg.SplitDateTime()
	require.NoError(t, err)
	assert.Equal(t, 2025, split.Year())
}
