package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/stack-ranker/internal/dal"
	"github.com/jonathan/stack-ranker/internal/dal/seed"
)

// SeedSampleData loads the static sample datasets into the relational
// schema: the default pipeline with its stage order, reps with their metric
// analytics rows, and opportunities with accounts, sources, and
// prediction/health analytics entries. Safe to run repeatedly.
func (s *Store) SeedSampleData(ctx context.Context) error {
	stageOrder, err := json.Marshal(seed.Stages())
	if err != nil {
		return &dal.BackendError{Op: "seed stages", Err: err}
	}

	var pipelineID int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO pipelines (name, description, stage_order)
		 VALUES ($1, 'Pipeline created from seed data', $2)
		 ON CONFLICT (name) DO UPDATE SET stage_order = EXCLUDED.stage_order, updated_at = NOW()
		 RETURNING id`,
		defaultPipelineName, stageOrder,
	).Scan(&pipelineID)
	if err != nil {
		s.log.Errorw("seeding pipeline failed", "error", err)
		return &dal.BackendError{Op: "seed pipeline", Err: err}
	}

	repIDs := map[string]int64{}
	for _, rm := range seed.RepMetrics() {
		var repID int64
		err := s.pool.QueryRow(ctx,
			`INSERT INTO reps (email, name, title, region, quota)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (email) DO UPDATE SET
			   name = EXCLUDED.name, title = EXCLUDED.title,
			   region = EXCLUDED.region, quota = EXCLUDED.quota, updated_at = NOW()
			 RETURNING id`,
			rm.Email, rm.Name, rm.Role, rm.Region, rm.Quota,
		).Scan(&repID)
		if err != nil {
			s.log.Errorw("seeding rep failed", "rep", rm.Name, "error", err)
			return &dal.BackendError{Op: "seed reps", Err: err}
		}
		repIDs[rm.Name] = repID

		if err := s.seedRepMetrics(ctx, repID, rm); err != nil {
			return err
		}
	}

	for _, opp := range seed.Opportunities() {
		if err := s.seedOpportunity(ctx, opp, repIDs, pipelineID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seedRepMetrics(ctx context.Context, repID int64, rm dal.RepMetrics) error {
	metrics := []struct {
		name  string
		value float64
	}{
		{"total_calls", rm.TotalCalls},
		{"calls_per_week", rm.CallsPerWeek},
		{"time_on_calls", rm.TimeOnCalls},
		{"avg_call_duration", rm.AvgCallDuration},
		{"opportunities", rm.Opportunities},
		{"pipeline_value", rm.PipelineValue},
		{"closed_won", rm.ClosedWon},
		{"win_rate", rm.WinRate},
		{"avg_deal_size", rm.AvgDealSize},
		{"quota", rm.Quota},
		{"quota_attainment", rm.QuotaAttainment},
	}

	metadata, err := json.Marshal(map[string]string{"region": rm.Region, "role": rm.Role})
	if err != nil {
		return &dal.BackendError{Op: "seed rep metrics", Err: err}
	}

	for _, m := range metrics {
		var existing int64
		err := s.pool.QueryRow(ctx,
			`SELECT id FROM analytics
			 WHERE rep_id = $1 AND metric = $2 AND opportunity_id IS NULL`,
			repID, m.name,
		).Scan(&existing)
		switch err {
		case nil:
			if _, err := s.pool.Exec(ctx,
				`UPDATE analytics SET value = $1, updated_at = NOW() WHERE id = $2`,
				m.value, existing,
			); err != nil {
				return &dal.BackendError{Op: "seed rep metrics", Err: err}
			}
		case pgx.ErrNoRows:
			if _, err := s.pool.Exec(ctx,
				`INSERT INTO analytics (metric, value, period, period_start, period_end, rep_id, metadata)
				 VALUES ($1, $2, 'seed', NOW(), NOW(), $3, $4)`,
				m.name, m.value, repID, metadata,
			); err != nil {
				return &dal.BackendError{Op: "seed rep metrics", Err: err}
			}
		default:
			return &dal.BackendError{Op: "seed rep metrics", Err: err}
		}
	}
	return nil
}

func (s *Store) seedOpportunity(ctx context.Context, opp dal.Opportunity, repIDs map[string]int64, pipelineID int64) error {
	// Opportunities are matched on title so re-running the seed is a no-op.
	var existing int64
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM opportunities WHERE title = $1`, opp.Name,
	).Scan(&existing)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return &dal.BackendError{Op: "seed opportunities", Err: err}
	}

	repID, ok := repIDs[opp.Owner]
	if !ok {
		var role, region *string
		if opp.OwnerRole != "" {
			role = &opp.OwnerRole
		}
		if opp.Region != "" {
			region = &opp.Region
		}
		err := s.pool.QueryRow(ctx,
			`INSERT INTO reps (email, name, title, region)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
			 RETURNING id`,
			syntheticEmail(opp.Owner), opp.Owner, role, region,
		).Scan(&repID)
		if err != nil {
			return &dal.BackendError{Op: "seed opportunities", Err: err}
		}
		repIDs[opp.Owner] = repID
	}

	var accountID int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO accounts (org_id, name, region)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
		 RETURNING id`,
		newOrgID(), opp.AccountName, opp.Region,
	).Scan(&accountID)
	if err != nil {
		return &dal.BackendError{Op: "seed opportunities", Err: err}
	}

	var sourceID *int64
	if opp.Source != "" {
		var id int64
		err := s.pool.QueryRow(ctx,
			`INSERT INTO sources (name, type, category)
			 VALUES ($1, 'inbound', 'digital')
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			opp.Source,
		).Scan(&id)
		if err != nil {
			return &dal.BackendError{Op: "seed opportunities", Err: err}
		}
		sourceID = &id
	}

	createdDate, err := dal.ParseDate(opp.CreatedDate)
	if err != nil {
		return &dal.BackendError{Op: "seed opportunities", Err: err}
	}
	closeDate, err := dal.ParseDate(opp.CloseDate)
	if err != nil {
		return &dal.BackendError{Op: "seed opportunities", Err: err}
	}

	probability := opp.PredictionScore / 100
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}

	var oppID int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO opportunities
		   (external_id, title, product_category, amount, stage, probability, priority,
		    close_date, created_at, account_id, rep_id, source_id, pipeline_id)
		 VALUES ($1, $2, 'Sales', $3, $4, $5, 'medium', $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		newExternalID(), opp.Name, opp.Amount, opp.Stage, probability,
		closeDate, createdDate, accountID, repID, sourceID, pipelineID,
	).Scan(&oppID)
	if err != nil {
		return &dal.BackendError{Op: "seed opportunities", Err: err}
	}

	metadata, err := json.Marshal(map[string]string{"owner": opp.Owner, "region": opp.Region})
	if err != nil {
		return &dal.BackendError{Op: "seed opportunities", Err: err}
	}

	for _, m := range []struct {
		name  string
		value float64
	}{
		{"prediction_score", opp.PredictionScore},
		{"health_score", healthValue(opp.HealthScore)},
	} {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO analytics (metric, value, period, period_start, period_end,
			                        rep_id, source_id, pipeline_id, opportunity_id, metadata)
			 VALUES ($1, $2, $3, NOW(), NOW(), $4, $5, $6, $7, $8)`,
			m.name, m.value, opp.FiscalPeriod, repID, sourceID, pipelineID, oppID, metadata,
		); err != nil {
			return &dal.BackendError{Op: "seed opportunities", Err: err}
		}
	}
	return nil
}

func syntheticEmail(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
}
