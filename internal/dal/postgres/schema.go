package postgres

import (
	"context"

	"github.com/jonathan/stack-ranker/internal/dal"
)

// defaultPipelineName is the pipeline row whose stage_order column is the
// source of truth for the stage list.
const defaultPipelineName = "Default Pipeline"

// schema is the relational layout backing the DAL. Analytics rows carry a
// real opportunity_id column so metric lookups are indexed and referential
// instead of going through JSON metadata.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id         BIGSERIAL PRIMARY KEY,
	org_id     TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL UNIQUE,
	region     TEXT,
	industry   TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS reps (
	id         BIGSERIAL PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	title      TEXT,
	region     TEXT,
	quota      DOUBLE PRECISION,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sources (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	type        TEXT NOT NULL,
	category    TEXT NOT NULL,
	cost        DOUBLE PRECISION,
	description TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS pipelines (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT,
	stage_order JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS opportunities (
	id               BIGSERIAL PRIMARY KEY,
	external_id      TEXT NOT NULL,
	title            TEXT NOT NULL,
	product_category TEXT,
	description      TEXT,
	amount           DOUBLE PRECISION NOT NULL DEFAULT 0,
	stage            TEXT NOT NULL,
	probability      DOUBLE PRECISION NOT NULL DEFAULT 0,
	priority         TEXT NOT NULL DEFAULT 'medium',
	close_date       DATE NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	account_id       BIGINT NOT NULL REFERENCES accounts(id),
	rep_id           BIGINT NOT NULL REFERENCES reps(id),
	source_id        BIGINT REFERENCES sources(id),
	pipeline_id      BIGINT REFERENCES pipelines(id)
);

CREATE INDEX IF NOT EXISTS idx_opportunities_rep ON opportunities (rep_id);
CREATE INDEX IF NOT EXISTS idx_opportunities_stage ON opportunities (stage);
CREATE INDEX IF NOT EXISTS idx_opportunities_created ON opportunities (created_at DESC);

CREATE TABLE IF NOT EXISTS analytics (
	id             BIGSERIAL PRIMARY KEY,
	metric         TEXT NOT NULL,
	value          DOUBLE PRECISION NOT NULL,
	period         TEXT NOT NULL,
	period_start   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	period_end     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	rep_id         BIGINT REFERENCES reps(id),
	source_id      BIGINT REFERENCES sources(id),
	pipeline_id    BIGINT REFERENCES pipelines(id),
	opportunity_id BIGINT REFERENCES opportunities(id),
	metadata       JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_analytics_opportunity_metric ON analytics (opportunity_id, metric);
CREATE INDEX IF NOT EXISTS idx_analytics_rep_metric ON analytics (rep_id, metric);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		s.log.Errorw("schema creation failed", "error", err)
		return &dal.BackendError{Op: "ensure schema", Err: err}
	}
	return nil
}
