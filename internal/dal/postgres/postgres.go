// Package postgres implements the DAL facade against a normalized
// PostgreSQL schema (accounts, reps, opportunities, sources, pipelines,
// analytics) using pgx. Exchanged records are denormalized from those rows
// and derived fields are computed at read time.
package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jonathan/stack-ranker/internal/dal"
)

// Store wraps a PostgreSQL connection pool and implements the DAL facade.
type Store struct {
	pool      *pgxpool.Pool
	log       *zap.SugaredLogger
	closeOnce sync.Once
}

var _ dal.DAL = (*Store)(nil)

// Connect establishes a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string, log *zap.SugaredLogger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &dal.BackendError{Op: "connect to database", Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &dal.BackendError{Op: "ping database", Err: err}
	}

	return &Store{pool: pool, log: log}, nil
}

// Opportunities returns the opportunity operations.
func (s *Store) Opportunities() dal.OpportunityStore { return (*opportunityStore)(s) }

// RepMetrics returns the rep-metrics operations.
func (s *Store) RepMetrics() dal.RepMetricsStore { return (*repMetricsStore)(s) }

// Config returns the stage-configuration operations.
func (s *Store) Config() dal.ConfigStore { return (*configStore)(s) }

// HealthCheck performs a trivial round-trip query. It never returns an
// error; failures are logged and resolve to false.
func (s *Store) HealthCheck(ctx context.Context) bool {
	var one int
	if err := s.pool.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		s.log.Errorw("database health check failed", "error", err)
		return false
	}
	return true
}

// Disconnect closes the connection pool. Idempotent.
func (s *Store) Disconnect(_ context.Context) error {
	s.closeOnce.Do(func() {
		if s.pool != nil {
			s.pool.Close()
		}
	})
	return nil
}
