package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/stack-ranker/internal/config"
	"github.com/jonathan/stack-ranker/internal/dal"
	"github.com/jonathan/stack-ranker/internal/dal/factory"
	"github.com/jonathan/stack-ranker/internal/logging"
	"github.com/jonathan/stack-ranker/internal/server"
)

var (
	servePort     int
	serveInMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for opportunities, rep metrics, and stage configuration.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides configuration)")
	serveCmd.Flags().BoolVar(&serveInMemory, "in-memory", false, "Use the in-memory backend regardless of configuration")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	opts := dal.Options{
		UseInMemory: serveInMemory || cfg.InMemory(),
		DatabaseURL: cfg.DatabaseURL,
	}

	store, err := factory.New(cmd.Context(), opts, log)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}

	srv := server.New(server.Config{Port: cfg.Port}, store, log)
	if err := srv.Start(); err != nil {
		// Disconnect is idempotent; safe even if shutdown already ran it.
		_ = store.Disconnect(context.Background())
		return err
	}
	return nil
}
