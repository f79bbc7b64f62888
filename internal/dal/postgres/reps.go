package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/stack-ranker/internal/dal"
)

type repMetricsStore Store

type repRow struct {
	id     int64
	name   string
	email  string
	title  *string
	region *string
	quota  *float64
}

// repMetricNames are the analytics metrics a rep-metrics update may write.
// The quota lives on the reps row itself; the opportunities count is always
// recomputed live and never trusted from analytics.
var repMetricNames = map[string]func(dal.RepMetricsPatch) *float64{
	"total_calls":       func(p dal.RepMetricsPatch) *float64 { return p.TotalCalls },
	"calls_per_week":    func(p dal.RepMetricsPatch) *float64 { return p.CallsPerWeek },
	"time_on_calls":     func(p dal.RepMetricsPatch) *float64 { return p.TimeOnCalls },
	"avg_call_duration": func(p dal.RepMetricsPatch) *float64 { return p.AvgCallDuration },
	"opportunities":     func(p dal.RepMetricsPatch) *float64 { return p.Opportunities },
	"pipeline_value":    func(p dal.RepMetricsPatch) *float64 { return p.PipelineValue },
	"closed_won":        func(p dal.RepMetricsPatch) *float64 { return p.ClosedWon },
	"win_rate":          func(p dal.RepMetricsPatch) *float64 { return p.WinRate },
	"avg_deal_size":     func(p dal.RepMetricsPatch) *float64 { return p.AvgDealSize },
	"quota_attainment":  func(p dal.RepMetricsPatch) *float64 { return p.QuotaAttainment },
}

func (s *repMetricsStore) GetAll(ctx context.Context) ([]dal.RepMetrics, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, title, region, quota
		 FROM reps WHERE is_active ORDER BY name`,
	)
	if err != nil {
		s.log.Errorw("fetching reps failed", "error", err)
		return nil, &dal.BackendError{Op: "fetch rep metrics", Err: err}
	}
	defer rows.Close()

	var reps []repRow
	for rows.Next() {
		var r repRow
		if err := rows.Scan(&r.id, &r.name, &r.email, &r.title, &r.region, &r.quota); err != nil {
			return nil, &dal.BackendError{Op: "scan rep", Err: err}
		}
		reps = append(reps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &dal.BackendError{Op: "fetch rep metrics", Err: err}
	}

	metrics := []dal.RepMetrics{}
	for _, r := range reps {
		m, err := s.assembleMetrics(ctx, r)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, *m)
	}
	return metrics, nil
}

func (s *repMetricsStore) GetByName(ctx context.Context, name string) (*dal.RepMetrics, error) {
	r, err := s.findRep(ctx, name)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	return s.assembleMetrics(ctx, *r)
}

func (s *repMetricsStore) Update(ctx context.Context, name string, patch dal.RepMetricsPatch) (*dal.RepMetrics, error) {
	r, err := s.findRep(ctx, name)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, &dal.NotFoundError{Entity: "rep", Key: name}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &dal.BackendError{Op: "update rep metrics", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if patch.Email != nil || patch.Role != nil || patch.Region != nil || patch.Quota != nil {
		_, err := tx.Exec(ctx,
			`UPDATE reps SET
			   email  = COALESCE($1, email),
			   title  = COALESCE($2, title),
			   region = COALESCE($3, region),
			   quota  = COALESCE($4, quota),
			   updated_at = NOW()
			 WHERE id = $5`,
			patch.Email, patch.Role, patch.Region, patch.Quota, r.id,
		)
		if err != nil {
			s.log.Errorw("updating rep failed", "rep", name, "error", err)
			return nil, &dal.BackendError{Op: "update rep metrics", Err: err}
		}
	}

	for metric, field := range repMetricNames {
		value := field(patch)
		if value == nil {
			continue
		}
		if err := upsertRepMetric(ctx, tx, r.id, metric, *value); err != nil {
			s.log.Errorw("upserting rep metric failed", "rep", name, "metric", metric, "error", err)
			return nil, &dal.BackendError{Op: "update rep metrics", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &dal.BackendError{Op: "update rep metrics", Err: err}
	}

	return s.GetByName(ctx, name)
}

func (s *repMetricsStore) findRep(ctx context.Context, name string) (*repRow, error) {
	var r repRow
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, title, region, quota FROM reps WHERE name = $1`,
		name,
	).Scan(&r.id, &r.name, &r.email, &r.title, &r.region, &r.quota)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		s.log.Errorw("fetching rep failed", "rep", name, "error", err)
		return nil, &dal.BackendError{Op: "fetch rep", Err: err}
	}
	return &r, nil
}

// assembleMetrics builds the exchanged snapshot for one rep. Every metric
// defaults to zero when no analytics row exists; the opportunities count is
// always recomputed from the opportunities table.
func (s *repMetricsStore) assembleMetrics(ctx context.Context, r repRow) (*dal.RepMetrics, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT metric, value FROM analytics
		 WHERE rep_id = $1 AND opportunity_id IS NULL`,
		r.id,
	)
	if err != nil {
		s.log.Errorw("fetching rep analytics failed", "rep", r.name, "error", err)
		return nil, &dal.BackendError{Op: "fetch rep metrics", Err: err}
	}
	defer rows.Close()

	values := map[string]float64{}
	for rows.Next() {
		var metric string
		var value float64
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, &dal.BackendError{Op: "scan rep metric", Err: err}
		}
		values[metric] = value
	}
	if err := rows.Err(); err != nil {
		return nil, &dal.BackendError{Op: "fetch rep metrics", Err: err}
	}

	var oppCount int64
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM opportunities WHERE rep_id = $1`, r.id,
	).Scan(&oppCount); err != nil {
		s.log.Errorw("counting rep opportunities failed", "rep", r.name, "error", err)
		return nil, &dal.BackendError{Op: "fetch rep metrics", Err: err}
	}

	m := dal.RepMetrics{
		Name:            r.name,
		Email:           r.email,
		Role:            "Sales Rep",
		Region:          "Unknown",
		TotalCalls:      values["total_calls"],
		CallsPerWeek:    values["calls_per_week"],
		TimeOnCalls:     values["time_on_calls"],
		AvgCallDuration: values["avg_call_duration"],
		Opportunities:   float64(oppCount),
		PipelineValue:   values["pipeline_value"],
		ClosedWon:       values["closed_won"],
		WinRate:         values["win_rate"],
		AvgDealSize:     values["avg_deal_size"],
		Quota:           values["quota"],
		QuotaAttainment: values["quota_attainment"],
	}
	if r.title != nil && *r.title != "" {
		m.Role = *r.title
	}
	if r.region != nil && *r.region != "" {
		m.Region = *r.region
	}
	if r.quota != nil && *r.quota != 0 {
		m.Quota = *r.quota
	}
	return &m, nil
}

// upsertRepMetric mirrors upsertOpportunityMetric for rep-level rows.
func upsertRepMetric(ctx context.Context, tx pgx.Tx, repID int64, metric string, value float64) error {
	var analyticsID int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM analytics
		 WHERE rep_id = $1 AND metric = $2 AND opportunity_id IS NULL`,
		repID, metric,
	).Scan(&analyticsID)
	switch err {
	case nil:
		_, err = tx.Exec(ctx,
			`UPDATE analytics SET value = $1, updated_at = NOW() WHERE id = $2`,
			value, analyticsID,
		)
		return err
	case pgx.ErrNoRows:
		_, err = tx.Exec(ctx,
			`INSERT INTO analytics (metric, value, period, period_start, period_end, rep_id)
			 VALUES ($1, $2, 'updated', NOW(), NOW(), $3)`,
			metric, value, repID,
		)
		return err
	default:
		return err
	}
}
