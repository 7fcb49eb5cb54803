// Package config provides configuration management for the Matchcast
// prediction service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Data     DataConfig     `mapstructure:"data" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	CORSAllowedOrigins  []string `mapstructure:"cors_allowed_origins"`
}

// ModelConfig represents model lifecycle and training configuration
type ModelConfig struct {
	ArtifactDir          string `mapstructure:"artifact_dir" validate:"required"`
	RetrainIntervalDays  int    `mapstructure:"retrain_interval_days" validate:"required,gt=0"`
	CheckIntervalMinutes int    `mapstructure:"check_interval_minutes" validate:"required,gt=0"`
	DefaultWindow        int    `mapstructure:"default_window" validate:"required,min=1,max=50"`
	SplitDate            string `mapstructure:"split_date" validate:"required,datetime=2006-01-02"`
	Trees                int    `mapstructure:"trees" validate:"required,gt=0"`
	MinSamplesSplit      int    `mapstructure:"min_samples_split" validate:"required,gt=1"`
	Seed                 int64  `mapstructure:"seed"`
	FormCacheTTLSeconds  int    `mapstructure:"form_cache_ttl_seconds" validate:"required,gt=0"`
}

// DataConfig represents match data source configuration
type DataConfig struct {
	Source    string           `mapstructure:"source" validate:"required,oneof=file postgres api"`
	MatchFile string           `mapstructure:"match_file"`
	API       ResultsAPIConfig `mapstructure:"api"`
}

// ResultsAPIConfig represents the external football results API
type ResultsAPIConfig struct {
	BaseURL        string   `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string   `mapstructure:"api_key"`
	Competitions   []string `mapstructure:"competitions"`
	Season         int      `mapstructure:"season"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	RateLimit      float64  `mapstructure:"rate_limit"`
}

// DatabaseConfig represents database connection configuration. The database
// is optional: when disabled, the postgres ledger source and prediction
// history are unavailable.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// RetrainInterval returns the staleness interval as a duration.
func (c *Config) RetrainInterval() time.Duration {
	return time.Duration(c.Model.RetrainIntervalDays) * 24 * time.Hour
}

// CheckInterval returns the background staleness-check cadence.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Model.CheckIntervalMinutes) * time.Minute
}

// SplitDateTime parses the configured train/test cutoff date.
func (c *Config) SplitDateTime() (time.Time, error) {
	return time.Parse("2006-01-02", c.Model.SplitDate)
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
