// Package dal defines the storage facade for the sales stack ranker: shared
// record shapes, derivation rules, and the contract both the in-memory and
// PostgreSQL backends implement.
package dal

import (
	"context"
)

// OpportunityStore provides CRUD access to opportunity records.
type OpportunityStore interface {
	// GetAll returns every opportunity matching the given filters. Absent
	// filters are no-ops; a nil filter set returns everything. No matches
	// yields an empty slice, never an error.
	GetAll(ctx context.Context, filters *Filters) ([]Opportunity, error)

	// GetByID returns the opportunity with the given id, or nil if no such
	// record exists. A well-formed but absent id is not an error.
	GetByID(ctx context.Context, id string) (*Opportunity, error)

	// Create inserts a new opportunity. The backend assigns the id and
	// computes the age; the input is never mutated.
	Create(ctx context.Context, data NewOpportunity) (*Opportunity, error)

	// Update applies only the non-nil fields of the patch. Age is recomputed
	// when the created date changes. Returns a NotFoundError if the id does
	// not resolve.
	Update(ctx context.Context, id string, patch OpportunityPatch) (*Opportunity, error)

	// Delete removes the opportunity. Returns a NotFoundError if the id does
	// not resolve.
	Delete(ctx context.Context, id string) error
}

// RepMetricsStore provides access to per-representative metric snapshots.
type RepMetricsStore interface {
	// GetAll returns a metrics snapshot for every tracked representative.
	GetAll(ctx context.Context) ([]RepMetrics, error)

	// GetByName returns the metrics for the named representative, or nil if
	// the name is unknown.
	GetByName(ctx context.Context, name string) (*RepMetrics, error)

	// Update merges the non-nil patch fields onto the existing record,
	// keyed by the representative's name. Returns a NotFoundError if the
	// name does not resolve.
	Update(ctx context.Context, name string, patch RepMetricsPatch) (*RepMetrics, error)
}

// ConfigStore provides access to the ordered pipeline stage list.
type ConfigStore interface {
	// GetStages returns the current stage list in funnel order. If backing
	// storage was never initialized the canonical default list is returned.
	GetStages(ctx context.Context) ([]string, error)

	// UpdateStages wholesale-replaces the stage list and returns the stored
	// value.
	UpdateStages(ctx context.Context, stages []string) ([]string, error)
}

// DAL is the storage facade. Callers obtain one instance at startup and
// never branch on which backend is behind it.
type DAL interface {
	Opportunities() OpportunityStore
	RepMetrics() RepMetricsStore
	Config() ConfigStore

	// HealthCheck reports whether the backend can serve requests. It never
	// returns an error; failures resolve to false.
	HealthCheck(ctx context.Context) bool

	// Disconnect releases backend resources. Idempotent; safe to call on a
	// backend that never connected.
	Disconnect(ctx context.Context) error
}
