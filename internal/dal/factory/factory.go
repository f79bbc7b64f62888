// Package factory constructs the configured DAL backend. It is the only
// place where the backend choice is made.
package factory

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/stack-ranker/internal/dal"
	"github.com/jonathan/stack-ranker/internal/dal/memory"
	"github.com/jonathan/stack-ranker/internal/dal/postgres"
)

// New builds exactly one backend from the options. The caller owns the
// returned facade and is responsible for calling Disconnect on shutdown.
func New(ctx context.Context, opts dal.Options, log *zap.SugaredLogger) (dal.DAL, error) {
	if opts.InMemory() {
		log.Infow("using in-memory storage backend")
		return memory.New(), nil
	}

	log.Infow("using postgres storage backend")
	return postgres.Connect(ctx, opts.DatabaseURL, log)
}
