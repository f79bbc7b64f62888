package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/stack-ranker/internal/dal"
)

type configStore Store

func (s *configStore) GetStages(ctx context.Context) ([]string, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT stage_order FROM pipelines WHERE name = $1`, defaultPipelineName,
	).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return defaultStages(), nil
		}
		s.log.Errorw("fetching stages failed", "error", err)
		return nil, &dal.BackendError{Op: "fetch stages", Err: err}
	}
	if len(raw) == 0 {
		return defaultStages(), nil
	}

	var stages []string
	if err := json.Unmarshal(raw, &stages); err != nil {
		s.log.Errorw("decoding stage order failed", "error", err)
		return nil, &dal.BackendError{Op: "fetch stages", Err: err}
	}
	if len(stages) == 0 {
		return defaultStages(), nil
	}
	return stages, nil
}

func (s *configStore) UpdateStages(ctx context.Context, stages []string) ([]string, error) {
	raw, err := json.Marshal(stages)
	if err != nil {
		return nil, &dal.BackendError{Op: "update stages", Err: err}
	}

	var stored []byte
	err = s.pool.QueryRow(ctx,
		`INSERT INTO pipelines (name, description, stage_order)
		 VALUES ($1, 'Default pipeline stages', $2)
		 ON CONFLICT (name) DO UPDATE SET stage_order = EXCLUDED.stage_order, updated_at = NOW()
		 RETURNING stage_order`,
		defaultPipelineName, raw,
	).Scan(&stored)
	if err != nil {
		s.log.Errorw("updating stages failed", "error", err)
		return nil, &dal.BackendError{Op: "update stages", Err: err}
	}

	var result []string
	if err := json.Unmarshal(stored, &result); err != nil {
		return nil, &dal.BackendError{Op: "update stages", Err: err}
	}
	return result, nil
}

func defaultStages() []string {
	out := make([]string, len(dal.DefaultStages))
	copy(out, dal.DefaultStages)
	return out
}
