// Package main provides the entry point for the prediction API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchcast/internal/classifier"
	"github.com/yourusername/matchcast/internal/config"
	"github.com/yourusername/matchcast/internal/database"
	"github.com/yourusername/matchcast/internal/datasource"
	"github.com/yourusername/matchcast/internal/health"
	"github.com/yourusername/matchcast/internal/lifecycle"
	"github.com/yourusername/matchcast/internal/logger"
	"github.com/yourusername/matchcast/internal/metrics"
	"github.com/yourusername/matchcast/internal/repository"
	"github.com/yourusername/matchcast/internal/scheduler"
	"github.com/yourusername/matchcast/internal/server"
	"github.com/yourusername/matchcast/internal/service"
	"github.com/yourusername/matchcast/internal/training"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	configPath := os.Getenv("MATCHCAST_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	if cfg.IsProduction() {
		appLog.SetFormatter(&logrus.JSONFormatter{})
	}
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"source":      cfg.Data.Source,
	}).Info("Matchcast prediction service starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The database is optional; without it predictions are not recorded and
	// the postgres match source is unavailable.
	var (
		db    *database.DB
		repos *repository.Repositories
	)
	if cfg.Database.Enabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		repos, err = repository.NewRepositories(db)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to create repositories")
		}
		appLog.Info("Database connection established")
	}

	source, err := datasource.NewMatchSource(cfg, repos, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create match source")
	}

	store, err := lifecycle.NewStore(cfg.Model.ArtifactDir)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create artifact store")
	}

	splitDate, err := cfg.SplitDateTime()
	if err != nil {
		appLog.WithError(err).Fatal("Invalid split date")
	}

	manager := lifecycle.NewManager(lifecycle.Config{
		RetrainInterval: cfg.RetrainInterval(),
		Training: training.Config{
			Window:     cfg.Model.DefaultWindow,
			SplitDate:  splitDate,
			Classifier: classifierConfig(cfg),
		},
	}, store, source, appLog)

	if err := manager.Load(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to load or train model")
	}

	var predictionRepo repository.PredictionRepository
	if repos != nil {
		predictionRepo = repos.Prediction
	}
	svc := service.NewPredictionService(service.Config{
		DefaultWindow: cfg.Model.DefaultWindow,
		CacheTTL:      time.Duration(cfg.Model.FormCacheTTLSeconds) * time.Second,
	}, manager, predictionRepo, appLog)

	// Background staleness check
	sched := scheduler.NewScheduler(manager, appLog)
	if err := sched.ScheduleRetrainCheck(cfg.CheckInterval()); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule retrain check")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	// Probe sidecar for container orchestration
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Logger:      appLog,
		Model:       svc,
	}
	if db != nil {
		healthCfg.DB = db
	}
	probes := health.NewServer(healthCfg)
	if err := probes.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	probes.SetReady(true)

	handler := server.NewHandler(svc, cfg.App.Name, appLog)
	srv := server.New(handler, cfg, appLog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			appLog.WithError(err).Error("HTTP server failed")
		}
	}

	probes.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Graceful shutdown failed")
	}

	appLog.Info("Matchcast prediction service stopped")
}

func classifierConfig(cfg *config.Config) classifier.Config {
	return classifier.Config{
		NumTrees:        cfg.Model.Trees,
		MinSamplesSplit: cfg.Model.MinSamplesSplit,
		Seed:            cfg.Model.Seed,
	}
}
