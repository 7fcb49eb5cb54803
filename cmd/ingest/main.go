// Package main provides the match ingestion CLI: it loads completed fixtures
// from the configured file or results API and stores them in Postgres.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/matchcast/internal/config"
	"github.com/yourusername/matchcast/internal/database"
	"github.com/yourusername/matchcast/internal/datasource"
	"github.com/yourusername/matchcast/internal/logger"
	"github.com/yourusername/matchcast/internal/repository"
)

var (
	configFile string
	fromSource string

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&fromSource, "from", "", "Source to ingest from (file or api), overrides configuration")
}

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest completed match results into the database",
	Long:  `Reads completed fixtures from the configured match file or results API and upserts them into the matches table. Already-stored fixtures are skipped.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if fromSource != "" {
			cfg.Data.Source = fromSource
		}
		if cfg.Data.Source == "postgres" {
			return fmt.Errorf("cannot ingest from the postgres source into itself")
		}
		if !cfg.Database.Enabled {
			return fmt.Errorf("ingestion requires database.enabled")
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngestion()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runIngestion() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	source, err := datasource.NewMatchSource(cfg, nil, appLog)
	if err != nil {
		return err
	}

	matches, err := source.FetchMatches(ctx)
	if err != nil {
		return fmt.Errorf("fetching matches: %w", err)
	}

	inserted, err := repos.Match.InsertBatch(ctx, matches)
	if err != nil {
		return fmt.Errorf("storing matches: %w", err)
	}

	total, err := repos.Match.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Ingestion Report ===")
	fmt.Printf("Source: %s\n", source.Name())
	fmt.Printf("Fetched: %d\n", len(matches))
	fmt.Printf("Inserted: %d\n", inserted)
	fmt.Printf("Skipped (duplicates): %d\n", int64(len(matches))-inserted)
	fmt.Printf("Total stored: %d\n", total)

	return nil
}
