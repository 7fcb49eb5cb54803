// Package main provides the one-shot model training CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/matchcast/internal/classifier"
	"github.com/yourusername/matchcast/internal/config"
	"github.com/yourusername/matchcast/internal/database"
	"github.com/yourusername/matchcast/internal/datasource"
	"github.com/yourusername/matchcast/internal/evaluation"
	"github.com/yourusername/matchcast/internal/ledger"
	"github.com/yourusername/matchcast/internal/lifecycle"
	"github.com/yourusername/matchcast/internal/logger"
	"github.com/yourusername/matchcast/internal/repository"
	"github.com/yourusername/matchcast/internal/training"
)

var (
	configFile  string
	splitDate   string
	window      int
	walkForward bool

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&splitDate, "split-date", "", "Train/test cutoff date (YYYY-MM-DD), overrides configuration")
	rootCmd.Flags().IntVar(&window, "window", 0, "Rolling form window, overrides configuration")
	rootCmd.Flags().BoolVar(&walkForward, "walk-forward", false, "Run a walk-forward evaluation instead of persisting a model")
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the fixture outcome model and persist the artifact",
	Long:  `Fetches the configured match data, runs the training pipeline and atomically persists the resulting model artifact.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTraining()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runTraining() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var repos *repository.Repositories
	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		repos, err = repository.NewRepositories(db)
		if err != nil {
			return err
		}
	}

	source, err := datasource.NewMatchSource(cfg, repos, appLog)
	if err != nil {
		return err
	}

	if walkForward {
		return runWalkForward(ctx, source)
	}

	store, err := lifecycle.NewStore(cfg.Model.ArtifactDir)
	if err != nil {
		return err
	}

	cutoff, err := resolveSplitDate()
	if err != nil {
		return err
	}

	trainWindow := cfg.Model.DefaultWindow
	if window > 0 {
		trainWindow = window
	}

	manager := lifecycle.NewManager(lifecycle.Config{
		RetrainInterval: cfg.RetrainInterval(),
		Training: training.Config{
			Window:    trainWindow,
			SplitDate: cutoff,
			Classifier: classifier.Config{
				NumTrees:        cfg.Model.Trees,
				MinSamplesSplit: cfg.Model.MinSamplesSplit,
				Seed:            cfg.Model.Seed,
			},
		},
	}, store, source, appLog)

	start := time.Now()
	if err := manager.Retrain(ctx); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	artifact, err := manager.Active()
	if err != nil {
		return err
	}

	fmt.Println("\n=== Training Report ===")
	fmt.Printf("Source: %s\n", source.Name())
	fmt.Printf("Teams: %d\n", artifact.TeamCount())
	fmt.Printf("Matches: %d\n", artifact.MatchCount())
	fmt.Printf("Window: %d\n", trainWindow)
	fmt.Printf("Split date: %s\n", cutoff.Format("2006-01-02"))
	fmt.Printf("Artifact dir: %s\n", cfg.Model.ArtifactDir)
	fmt.Printf("Duration: %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Next retrain: %s\n", artifact.NextRetrainAt.Format(time.RFC3339))

	return nil
}

func runWalkForward(ctx context.Context, source datasource.MatchSource) error {
	records, err := source.FetchMatches(ctx)
	if err != nil {
		return fmt.Errorf("fetching matches: %w", err)
	}

	trainWindow := cfg.Model.DefaultWindow
	if window > 0 {
		trainWindow = window
	}

	l := ledger.New(records, time.Now())
	result, err := evaluation.RunWalkForward(l, evaluation.DefaultConfig(training.Config{
		Window: trainWindow,
		Classifier: classifier.Config{
			NumTrees:        cfg.Model.Trees,
			MinSamplesSplit: cfg.Model.MinSamplesSplit,
			Seed:            cfg.Model.Seed,
		},
	}), appLog)
	if err != nil {
		return fmt.Errorf("walk-forward evaluation: %w", err)
	}

	fmt.Println("\n=== Walk-Forward Evaluation ===")
	fmt.Printf("Matches: %d\n", l.Len())
	fmt.Printf("Windows: %d\n", len(result.Windows))
	for _, w := range result.Windows {
		fmt.Printf("  %2d. %s -> %s  train=%-4d test=%-3d accuracy=%.3f\n",
			w.ID, w.Cutoff.Format("2006-01-02"), w.TestEnd.Format("2006-01-02"),
			w.TrainRows, w.TestRows, w.Accuracy)
	}
	fmt.Printf("Mean accuracy: %.3f (stddev %.3f)\n", result.MeanAccuracy, result.StdDev)
	fmt.Printf("Consistency: %.3f\n", result.Consistency)

	return nil
}

func resolveSplitDate() (time.Time, error) {
	if splitDate != "" {
		cutoff, err := time.Parse("2006-01-02", splitDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --split-date: %w", err)
		}
		return cutoff, nil
	}
	return cfg.SplitDateTime()
}
