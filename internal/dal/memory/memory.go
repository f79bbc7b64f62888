// Package memory implements the DAL facade with process-local collections
// cloned from the static sample datasets. It backs tests and local
// development runs where no database is available.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jonathan/stack-ranker/internal/dal"
	"github.com/jonathan/stack-ranker/internal/dal/seed"
)

// Store holds the mutable in-memory collections. Go serves requests on
// parallel goroutines, so unlike the storage it models this store guards
// its state with a lock.
type Store struct {
	mu            sync.RWMutex
	opportunities []dal.Opportunity
	repMetrics    []dal.RepMetrics
	stages        []string
}

var _ dal.DAL = (*Store)(nil)

// New creates a store seeded from the sample datasets.
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset restores all three collections to their original seed snapshots.
// It exists to give test suites full isolation between cases.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opportunities = seed.Opportunities()
	s.repMetrics = seed.RepMetrics()
	s.stages = seed.Stages()
}

// Opportunities returns the opportunity operations.
func (s *Store) Opportunities() dal.OpportunityStore { return (*opportunityStore)(s) }

// RepMetrics returns the rep-metrics operations.
func (s *Store) RepMetrics() dal.RepMetricsStore { return (*repMetricsStore)(s) }

// Config returns the stage-configuration operations.
func (s *Store) Config() dal.ConfigStore { return (*configStore)(s) }

// HealthCheck always succeeds for the in-memory backend.
func (s *Store) HealthCheck(_ context.Context) bool { return true }

// Disconnect is a no-op; there is nothing to release.
func (s *Store) Disconnect(_ context.Context) error { return nil }

// newID combines a millisecond timestamp with random bits via a ULID,
// giving practical uniqueness within a process lifetime.
func newID() string {
	return fmt.Sprintf("OPP-%s", ulid.Make())
}

// -----------------------------------------------------------------------------
// Opportunity operations
// -----------------------------------------------------------------------------

type opportunityStore Store

func (s *opportunityStore) GetAll(_ context.Context, filters *dal.Filters) ([]dal.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]dal.Opportunity, 0, len(s.opportunities))
	for _, opp := range s.opportunities {
		if filters != nil {
			if filters.Stage != "" && opp.Stage != filters.Stage {
				continue
			}
			if filters.Rep != "" && opp.Owner != filters.Rep {
				continue
			}
			if filters.Region != "" && opp.Region != filters.Region {
				continue
			}
			if filters.DateRange != nil {
				created, err := dal.ParseDate(opp.CreatedDate)
				if err != nil || created.Before(filters.DateRange.Start) || created.After(filters.DateRange.End) {
					continue
				}
			}
		}
		filtered = append(filtered, opp)
	}
	return filtered, nil
}

func (s *opportunityStore) GetByID(_ context.Context, id string) (*dal.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, opp := range s.opportunities {
		if opp.ID == id {
			found := opp
			return &found, nil
		}
	}
	return nil, nil
}

func (s *opportunityStore) Create(_ context.Context, data dal.NewOpportunity) (*dal.Opportunity, error) {
	created, err := dal.ParseDate(data.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("invalid created date %q: %w", data.CreatedDate, err)
	}

	opp := dal.Opportunity{
		ID:              newID(),
		Name:            data.Name,
		Owner:           data.Owner,
		OwnerRole:       data.OwnerRole,
		Region:          data.Region,
		CreatedDate:     data.CreatedDate,
		CloseDate:       data.CloseDate,
		Stage:           data.Stage,
		AccountName:     data.AccountName,
		Amount:          data.Amount,
		Source:          data.Source,
		Age:             dal.AgeDays(created, time.Now()),
		FiscalPeriod:    data.FiscalPeriod,
		PredictionScore: data.PredictionScore,
		HealthScore:     data.HealthScore,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opportunities = append(s.opportunities, opp)
	return &opp, nil
}

func (s *opportunityStore) Update(_ context.Context, id string, patch dal.OpportunityPatch) (*dal.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, opp := range s.opportunities {
		if opp.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &dal.NotFoundError{Entity: "opportunity", Key: id}
	}

	opp := s.opportunities[idx]
	applyOpportunityPatch(&opp, patch)

	if patch.CreatedDate != nil {
		created, err := dal.ParseDate(*patch.CreatedDate)
		if err != nil {
			return nil, fmt.Errorf("invalid created date %q: %w", *patch.CreatedDate, err)
		}
		opp.Age = dal.AgeDays(created, time.Now())
	}

	s.opportunities[idx] = opp
	return &opp, nil
}

func (s *opportunityStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, opp := range s.opportunities {
		if opp.ID == id {
			s.opportunities = append(s.opportunities[:i], s.opportunities[i+1:]...)
			return nil
		}
	}
	return &dal.NotFoundError{Entity: "opportunity", Key: id}
}

func applyOpportunityPatch(opp *dal.Opportunity, patch dal.OpportunityPatch) {
	if patch.Name != nil {
		opp.Name = *patch.Name
	}
	if patch.Owner != nil {
		opp.Owner = *patch.Owner
	}
	if patch.OwnerRole != nil {
		opp.OwnerRole = *patch.OwnerRole
	}
	if patch.Region != nil {
		opp.Region = *patch.Region
	}
	if patch.CreatedDate != nil {
		opp.CreatedDate = *patch.CreatedDate
	}
	if patch.CloseDate != nil {
		opp.CloseDate = *patch.CloseDate
	}
	if patch.Stage != nil {
		opp.Stage = *patch.Stage
	}
	if patch.AccountName != nil {
		opp.AccountName = *patch.AccountName
	}
	if patch.Amount != nil {
		opp.Amount = *patch.Amount
	}
	if patch.Source != nil {
		opp.Source = *patch.Source
	}
	if patch.FiscalPeriod != nil {
		opp.FiscalPeriod = *patch.FiscalPeriod
	}
	if patch.PredictionScore != nil {
		opp.PredictionScore = *patch.PredictionScore
	}
	if patch.HealthScore != nil {
		opp.HealthScore = *patch.HealthScore
	}
}

// -----------------------------------------------------------------------------
// Rep-metrics operations
// -----------------------------------------------------------------------------

type repMetricsStore Store

func (s *repMetricsStore) GetAll(_ context.Context) ([]dal.RepMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dal.RepMetrics, len(s.repMetrics))
	copy(out, s.repMetrics)
	return out, nil
}

func (s *repMetricsStore) GetByName(_ context.Context, name string) (*dal.RepMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rep := range s.repMetrics {
		if rep.Name == name {
			found := rep
			return &found, nil
		}
	}
	return nil, nil
}

func (s *repMetricsStore) Update(_ context.Context, name string, patch dal.RepMetricsPatch) (*dal.RepMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, rep := range s.repMetrics {
		if rep.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &dal.NotFoundError{Entity: "rep", Key: name}
	}

	rep := s.repMetrics[idx]
	applyRepMetricsPatch(&rep, patch)
	s.repMetrics[idx] = rep
	return &rep, nil
}

func applyRepMetricsPatch(rep *dal.RepMetrics, patch dal.RepMetricsPatch) {
	if patch.Email != nil {
		rep.Email = *patch.Email
	}
	if patch.Role != nil {
		rep.Role = *patch.Role
	}
	if patch.Region != nil {
		rep.Region = *patch.Region
	}
	if patch.TotalCalls != nil {
		rep.TotalCalls = *patch.TotalCalls
	}
	if patch.CallsPerWeek != nil {
		rep.CallsPerWeek = *patch.CallsPerWeek
	}
	if patch.TimeOnCalls != nil {
		rep.TimeOnCalls = *patch.TimeOnCalls
	}
	if patch.AvgCallDuration != nil {
		rep.AvgCallDuration = *patch.AvgCallDuration
	}
	if patch.Opportunities != nil {
		rep.Opportunities = *patch.Opportunities
	}
	if patch.PipelineValue != nil {
		rep.PipelineValue = *patch.PipelineValue
	}
	if patch.ClosedWon != nil {
		rep.ClosedWon = *patch.ClosedWon
	}
	if patch.WinRate != nil {
		rep.WinRate = *patch.WinRate
	}
	if patch.AvgDealSize != nil {
		rep.AvgDealSize = *patch.AvgDealSize
	}
	if patch.Quota != nil {
		rep.Quota = *patch.Quota
	}
	if patch.QuotaAttainment != nil {
		rep.QuotaAttainment = *patch.QuotaAttainment
	}
}

// -----------------------------------------------------------------------------
// Stage configuration
// -----------------------------------------------------------------------------

type configStore Store

func (s *configStore) GetStages(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.stages))
	copy(out, s.stages)
	return out, nil
}

func (s *configStore) UpdateStages(_ context.Context, stages []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stages = make([]string, len(stages))
	copy(s.stages, stages)

	out := make([]string, len(s.stages))
	copy(out, s.stages)
	return out, nil
}
