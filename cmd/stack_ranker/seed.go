package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/stack-ranker/internal/config"
	"github.com/jonathan/stack-ranker/internal/dal/postgres"
	"github.com/jonathan/stack-ranker/internal/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the database schema and load sample data",
	Long:  `Connect to PostgreSQL, create any missing tables, and insert the sample reps, opportunities, and default pipeline.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required to seed")
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	store, err := postgres.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = store.Disconnect(ctx) }()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := store.SeedSampleData(ctx); err != nil {
		return fmt.Errorf("failed to seed sample data: %w", err)
	}

	log.Infow("seed complete")
	return nil
}
