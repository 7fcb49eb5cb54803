// Package config provides configuration management for the Matchcast
// prediction service.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField enforces constraints that span multiple fields
func validateCrossField(cfg *Config) error {
	if _, err := time.Parse("2006-01-02", cfg.Model.SplitDate); err != nil {
		return fmt.Errorf("model.split_date must be a YYYY-MM-DD date: %w", err)
	}

	switch cfg.Data.Source {
	case "file":
		if cfg.Data.MatchFile == "" {
			return fmt.Errorf("data.match_file is required when data.source is 'file'")
		}
	case "postgres":
		if !cfg.Database.Enabled {
			return fmt.Errorf("database must be enabled when data.source is 'postgres'")
		}
	case "api":
		if cfg.Data.API.BaseURL == "" {
			return fmt.Errorf("data.api.base_url is required when data.source is 'api'")
		}
	}

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database.host, database.name and database.user are required when the database is enabled")
		}
	}

	return nil
}

// formatValidationErrors converts validator errors into a readable message
func formatValidationErrors(errs validator.ValidationErrors) error {
	msg := "configuration validation failed:"
	for _, err := range errs {
		msg += fmt.Sprintf(" field '%s' failed on '%s' rule;", err.Namespace(), err.Tag())
	}
	return fmt.Errorf("%s", msg)
}
