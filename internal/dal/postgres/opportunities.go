package postgres

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/stack-ranker/internal/dal"
)

type opportunityStore Store

// opportunityColumns is the denormalized projection shared by every
// opportunity read. Explicit analytics entries override the values derived
// from the stored probability.
const opportunityColumns = `
	SELECT o.id, o.title, o.stage, o.amount, o.probability,
	       o.created_at, o.close_date,
	       a.name, r.name, r.title, r.region, s.name,
	       pred.value, health.value
	FROM opportunities o
	JOIN accounts a ON a.id = o.account_id
	JOIN reps r ON r.id = o.rep_id
	LEFT JOIN sources s ON s.id = o.source_id
	LEFT JOIN analytics pred
	       ON pred.opportunity_id = o.id AND pred.metric = 'prediction_score'
	LEFT JOIN analytics health
	       ON health.opportunity_id = o.id AND health.metric = 'health_score'`

type opportunityRow struct {
	id          int64
	title       string
	stage       string
	amount      float64
	probability float64
	createdAt   time.Time
	closeDate   time.Time
	accountName string
	repName     string
	repTitle    *string
	repRegion   *string
	sourceName  *string
	predValue   *float64
	healthValue *float64
}

func (row *opportunityRow) scan(scanner interface{ Scan(...any) error }) error {
	return scanner.Scan(&row.id, &row.title, &row.stage, &row.amount, &row.probability,
		&row.createdAt, &row.closeDate,
		&row.accountName, &row.repName, &row.repTitle, &row.repRegion, &row.sourceName,
		&row.predValue, &row.healthValue)
}

func (row *opportunityRow) toRecord(now time.Time) dal.Opportunity {
	opp := dal.Opportunity{
		ID:           strconv.FormatInt(row.id, 10),
		Name:         row.title,
		Owner:        row.repName,
		OwnerRole:    "Sales Rep",
		Region:       "Unknown",
		CreatedDate:  dal.FormatDate(row.createdAt),
		CloseDate:    dal.FormatDate(row.closeDate),
		Stage:        row.stage,
		AccountName:  row.accountName,
		Amount:       row.amount,
		Source:       "Unknown",
		Age:          dal.AgeDays(row.createdAt, now),
		FiscalPeriod: dal.FiscalPeriod(row.closeDate),
	}
	if row.repTitle != nil && *row.repTitle != "" {
		opp.OwnerRole = *row.repTitle
	}
	if row.repRegion != nil && *row.repRegion != "" {
		opp.Region = *row.repRegion
	}
	if row.sourceName != nil && *row.sourceName != "" {
		opp.Source = *row.sourceName
	}

	opp.PredictionScore = math.Round(row.probability * 100)
	if row.predValue != nil {
		opp.PredictionScore = *row.predValue
	}

	opp.HealthScore = dal.InferHealth(row.probability)
	if row.healthValue != nil {
		opp.HealthScore = healthFromValue(*row.healthValue)
	}
	return opp
}

// healthFromValue maps a stored numeric health value back to a tier.
func healthFromValue(v float64) dal.Health {
	switch {
	case v >= 3:
		return dal.HealthHigh
	case v >= 2:
		return dal.HealthMedium
	default:
		return dal.HealthLow
	}
}

// healthValue maps a tier to its stored numeric value.
func healthValue(h dal.Health) float64 {
	switch h {
	case dal.HealthHigh:
		return 3
	case dal.HealthMedium:
		return 2
	default:
		return 1
	}
}

func (s *opportunityStore) GetAll(ctx context.Context, filters *dal.Filters) ([]dal.Opportunity, error) {
	query := opportunityColumns + ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters != nil {
		if filters.Stage != "" {
			query += fmt.Sprintf(" AND o.stage = $%d", argNum)
			args = append(args, filters.Stage)
			argNum++
		}
		if filters.Rep != "" {
			query += fmt.Sprintf(" AND r.name = $%d", argNum)
			args = append(args, filters.Rep)
			argNum++
		}
		if filters.Region != "" {
			query += fmt.Sprintf(" AND r.region = $%d", argNum)
			args = append(args, filters.Region)
			argNum++
		}
		if filters.DateRange != nil {
			query += fmt.Sprintf(" AND o.created_at >= $%d AND o.created_at <= $%d", argNum, argNum+1)
			args = append(args, filters.DateRange.Start, filters.DateRange.End)
		}
	}

	query += " ORDER BY o.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		s.log.Errorw("fetching opportunities failed", "error", err)
		return nil, &dal.BackendError{Op: "fetch opportunities", Err: err}
	}
	defer rows.Close()

	now := time.Now()
	opportunities := []dal.Opportunity{}
	for rows.Next() {
		var row opportunityRow
		if err := row.scan(rows); err != nil {
			s.log.Errorw("scanning opportunity failed", "error", err)
			return nil, &dal.BackendError{Op: "scan opportunity", Err: err}
		}
		opportunities = append(opportunities, row.toRecord(now))
	}
	if err := rows.Err(); err != nil {
		return nil, &dal.BackendError{Op: "fetch opportunities", Err: err}
	}
	return opportunities, nil
}

func (s *opportunityStore) GetByID(ctx context.Context, id string) (*dal.Opportunity, error) {
	oppID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		// A non-numeric id cannot match any row.
		return nil, nil
	}

	var row opportunityRow
	err = row.scan(s.pool.QueryRow(ctx, opportunityColumns+` WHERE o.id = $1`, oppID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		s.log.Errorw("fetching opportunity failed", "id", id, "error", err)
		return nil, &dal.BackendError{Op: "fetch opportunity", Err: err}
	}

	opp := row.toRecord(time.Now())
	return &opp, nil
}

func (s *opportunityStore) Create(ctx context.Context, data dal.NewOpportunity) (*dal.Opportunity, error) {
	createdDate, err := dal.ParseDate(data.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("invalid created date %q: %w", data.CreatedDate, err)
	}
	closeDate, err := dal.ParseDate(data.CloseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid close date %q: %w", data.CloseDate, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &dal.BackendError{Op: "create opportunity", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// Resolve the owning rep; opportunities are never created for unknown reps.
	var repID int64
	var repTitle, repRegion *string
	err = tx.QueryRow(ctx,
		`SELECT id, title, region FROM reps WHERE name = $1`,
		data.Owner,
	).Scan(&repID, &repTitle, &repRegion)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &dal.NotFoundError{Entity: "rep", Key: data.Owner}
		}
		s.log.Errorw("resolving rep failed", "rep", data.Owner, "error", err)
		return nil, &dal.BackendError{Op: "create opportunity", Err: err}
	}

	var accountID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO accounts (org_id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
		 RETURNING id`,
		newOrgID(), data.AccountName,
	).Scan(&accountID)
	if err != nil {
		s.log.Errorw("upserting account failed", "account", data.AccountName, "error", err)
		return nil, &dal.BackendError{Op: "create opportunity", Err: err}
	}

	var sourceID *int64
	if data.Source != "" {
		var id int64
		err = tx.QueryRow(ctx,
			`INSERT INTO sources (name, type, category)
			 VALUES ($1, 'inbound', 'digital')
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			data.Source,
		).Scan(&id)
		if err != nil {
			s.log.Errorw("upserting source failed", "source", data.Source, "error", err)
			return nil, &dal.BackendError{Op: "create opportunity", Err: err}
		}
		sourceID = &id
	}

	var pipelineID *int64
	var pid int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM pipelines WHERE name = $1`, defaultPipelineName,
	).Scan(&pid)
	if err == nil {
		pipelineID = &pid
	} else if err != pgx.ErrNoRows {
		s.log.Errorw("resolving default pipeline failed", "error", err)
		return nil, &dal.BackendError{Op: "create opportunity", Err: err}
	}

	var oppID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO opportunities
		   (external_id, title, product_category, amount, stage, probability, priority,
		    close_date, created_at, account_id, rep_id, source_id, pipeline_id)
		 VALUES ($1, $2, 'Sales', $3, $4, $5, 'medium', $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		newExternalID(), data.Name, data.Amount, data.Stage, data.PredictionScore/100,
		closeDate, createdDate, accountID, repID, sourceID, pipelineID,
	).Scan(&oppID)
	if err != nil {
		s.log.Errorw("inserting opportunity failed", "error", err)
		return nil, &dal.BackendError{Op: "create opportunity", Err: err}
	}

	period := data.FiscalPeriod
	if period == "" {
		period = dal.FiscalPeriod(closeDate)
	}
	if err := insertOpportunityMetric(ctx, tx, oppID, "prediction_score", data.PredictionScore, period, repID, sourceID, pipelineID); err != nil {
		s.log.Errorw("inserting prediction score failed", "error", err)
		return nil, &dal.BackendError{Op: "create opportunity", Err: err}
	}
	if err := insertOpportunityMetric(ctx, tx, oppID, "health_score", healthValue(data.HealthScore), period, repID, sourceID, pipelineID); err != nil {
		s.log.Errorw("inserting health score failed", "error", err)
		return nil, &dal.BackendError{Op: "create opportunity", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &dal.BackendError{Op: "create opportunity", Err: err}
	}

	opp := dal.Opportunity{
		ID:              strconv.FormatInt(oppID, 10),
		Name:            data.Name,
		Owner:           data.Owner,
		OwnerRole:       "Sales Rep",
		Region:          "Unknown",
		CreatedDate:     data.CreatedDate,
		CloseDate:       data.CloseDate,
		Stage:           data.Stage,
		AccountName:     data.AccountName,
		Amount:          data.Amount,
		Source:          data.Source,
		Age:             dal.AgeDays(createdDate, time.Now()),
		FiscalPeriod:    dal.FiscalPeriod(closeDate),
		PredictionScore: data.PredictionScore,
		HealthScore:     data.HealthScore,
	}
	if repTitle != nil && *repTitle != "" {
		opp.OwnerRole = *repTitle
	}
	if repRegion != nil && *repRegion != "" {
		opp.Region = *repRegion
	}
	if opp.Source == "" {
		opp.Source = "Unknown"
	}
	return &opp, nil
}

func (s *opportunityStore) Update(ctx context.Context, id string, patch dal.OpportunityPatch) (*dal.Opportunity, error) {
	oppID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		// The caller clearly intended a specific write; a malformed id is a
		// hard failure here, unlike reads.
		return nil, fmt.Errorf("invalid opportunity id %q", id)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &dal.BackendError{Op: "update opportunity", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM opportunities WHERE id = $1)`, oppID,
	).Scan(&exists); err != nil {
		s.log.Errorw("checking opportunity failed", "id", id, "error", err)
		return nil, &dal.BackendError{Op: "update opportunity", Err: err}
	}
	if !exists {
		return nil, &dal.NotFoundError{Entity: "opportunity", Key: id}
	}

	sets := []string{}
	args := []any{}
	argNum := 1
	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if patch.Name != nil {
		addSet("title", *patch.Name)
	}
	if patch.Amount != nil {
		addSet("amount", *patch.Amount)
	}
	if patch.Stage != nil {
		addSet("stage", *patch.Stage)
	}
	if patch.CloseDate != nil {
		closeDate, err := dal.ParseDate(*patch.CloseDate)
		if err != nil {
			return nil, fmt.Errorf("invalid close date %q: %w", *patch.CloseDate, err)
		}
		addSet("close_date", closeDate)
	}
	if patch.CreatedDate != nil {
		createdDate, err := dal.ParseDate(*patch.CreatedDate)
		if err != nil {
			return nil, fmt.Errorf("invalid created date %q: %w", *patch.CreatedDate, err)
		}
		addSet("created_at", createdDate)
	}
	if patch.PredictionScore != nil {
		addSet("probability", *patch.PredictionScore/100)
	}

	if len(sets) > 0 {
		query := fmt.Sprintf("UPDATE opportunities SET %s WHERE id = $%d", strings.Join(sets, ", "), argNum)
		args = append(args, oppID)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			s.log.Errorw("updating opportunity failed", "id", id, "error", err)
			return nil, &dal.BackendError{Op: "update opportunity", Err: err}
		}
	}

	if patch.PredictionScore != nil {
		if err := upsertOpportunityMetric(ctx, tx, oppID, "prediction_score", *patch.PredictionScore); err != nil {
			s.log.Errorw("upserting prediction score failed", "id", id, "error", err)
			return nil, &dal.BackendError{Op: "update opportunity", Err: err}
		}
	}
	if patch.HealthScore != nil {
		if err := upsertOpportunityMetric(ctx, tx, oppID, "health_score", healthValue(*patch.HealthScore)); err != nil {
			s.log.Errorw("upserting health score failed", "id", id, "error", err)
			return nil, &dal.BackendError{Op: "update opportunity", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &dal.BackendError{Op: "update opportunity", Err: err}
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &dal.BackendError{Op: "update opportunity", Err: fmt.Errorf("record vanished after update")}
	}
	return updated, nil
}

func (s *opportunityStore) Delete(ctx context.Context, id string) error {
	oppID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid opportunity id %q", id)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &dal.BackendError{Op: "delete opportunity", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Remove metric rows first so no orphaned analytics survive the delete.
	if _, err := tx.Exec(ctx,
		`DELETE FROM analytics WHERE opportunity_id = $1`, oppID,
	); err != nil {
		s.log.Errorw("deleting opportunity analytics failed", "id", id, "error", err)
		return &dal.BackendError{Op: "delete opportunity", Err: err}
	}

	result, err := tx.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, oppID)
	if err != nil {
		s.log.Errorw("deleting opportunity failed", "id", id, "error", err)
		return &dal.BackendError{Op: "delete opportunity", Err: err}
	}
	if result.RowsAffected() == 0 {
		return &dal.NotFoundError{Entity: "opportunity", Key: id}
	}

	if err := tx.Commit(ctx); err != nil {
		return &dal.BackendError{Op: "delete opportunity", Err: err}
	}
	return nil
}

// insertOpportunityMetric writes a fresh analytics row for an opportunity.
func insertOpportunityMetric(ctx context.Context, tx pgx.Tx, oppID int64, metric string, value float64, period string, repID int64, sourceID, pipelineID *int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO analytics (metric, value, period, period_start, period_end,
		                        rep_id, source_id, pipeline_id, opportunity_id)
		 VALUES ($1, $2, $3, NOW(), NOW(), $4, $5, $6, $7)`,
		metric, value, period, repID, sourceID, pipelineID, oppID,
	)
	return err
}

// upsertOpportunityMetric updates an existing analytics row for the
// opportunity/metric pair or inserts one when none exists. An explicit
// branch avoids treating a missing row as id zero.
func upsertOpportunityMetric(ctx context.Context, tx pgx.Tx, oppID int64, metric string, value float64) error {
	var analyticsID int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM analytics WHERE opportunity_id = $1 AND metric = $2`,
		oppID, metric,
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
			`INSERT INTO analytics (metric, value, period, period_start, period_end, opportunity_id)
			 VALUES ($1, $2, 'updated', NOW(), NOW(), $3)`,
			metric, value, oppID,
		)
		return err
	default:
		return err
	}
}

const orgIDChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newOrgID generates a synthetic account org id like ORG-7KQ2MD.
func newOrgID() string {
	var b strings.Builder
	b.WriteString("ORG-")
	for i := 0; i < 6; i++ {
		b.WriteByte(orgIDChars[rand.IntN(len(orgIDChars))])
	}
	return b.String()
}

// newExternalID generates a synthetic CRM-style external identifier:
// a fixed prefix plus a zero-padded numeric suffix.
func newExternalID() string {
	return fmt.Sprintf("006Rj%010d", rand.Int64N(10_000_000_000))
}
