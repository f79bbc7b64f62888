package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/stack-ranker/internal/dal"
)

func newOpportunityInput() dal.NewOpportunity {
	return dal.NewOpportunity{
		Name:            "Vertex Systems - Platform Migration",
		Owner:           "Christopher Tucker",
		OwnerRole:       "Enterprise AE",
		Region:          "West",
		CreatedDate:     dal.FormatDate(time.Now().AddDate(0, 0, -10)),
		CloseDate:       "2025-12-19",
		Stage:           "Discovery (SAO)",
		AccountName:     "Vertex Systems",
		Amount:          50000,
		Source:          "Inbound Website",
		FiscalPeriod:    "Q4-2025",
		PredictionScore: 55,
		HealthScore:     dal.HealthMedium,
	}
}

func TestGetAll_NoFiltersReturnsSeedData(t *testing.T) {
	store := New()

	opportunities, err := store.Opportunities().GetAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, opportunities, 8)
}

func TestGetAll_FiltersAreConjunctive(t *testing.T) {
	store := New()
	ctx := context.Background()

	cases := []struct {
		name     string
		filters  dal.Filters
		expected []string
	}{
		{
			name:     "stage only",
			filters:  dal.Filters{Stage: "Discovery (SAO)"},
			expected: []string{"OPP-1002", "OPP-1008"},
		},
		{
			name:     "region only",
			filters:  dal.Filters{Region: "West"},
			expected: []string{"OPP-1001", "OPP-1003", "OPP-1005", "OPP-1007"},
		},
		{
			name:     "stage and region",
			filters:  dal.Filters{Stage: "Discovery (SAO)", Region: "East"},
			expected: []string{"OPP-1002", "OPP-1008"},
		},
		{
			name:     "rep and stage with no overlap",
			filters:  dal.Filters{Rep: "Mike Chen", Stage: "Closed Won"},
			expected: []string{},
		},
		{
			name: "date range",
			filters: dal.Filters{DateRange: &dal.DateRange{
				Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			}},
			expected: []string{"OPP-1003", "OPP-1007"},
		},
		{
			name: "rep and date range",
			filters: dal.Filters{Rep: "Emily Davis", DateRange: &dal.DateRange{
				Start: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
			}},
			expected: []string{"OPP-1004", "OPP-1008"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opportunities, err := store.Opportunities().GetAll(ctx, &tc.filters)
			require.NoError(t, err)

			ids := make([]string, 0, len(opportunities))
			for _, opp := range opportunities {
				ids = append(ids, opp.ID)
			}
			assert.ElementsMatch(t, tc.expected, ids)
		})
	}
}

func TestGetByID_AbsentIDReturnsNilWithoutError(t *testing.T) {
	store := New()

	opp, err := store.Opportunities().GetByID(context.Background(), "OPP-9999")

	assert.NoError(t, err)
	assert.Nil(t, opp)
}

func TestCreate_AssignsIDAndComputesAge(t *testing.T) {
	store := New()
	ctx := context.Background()

	input := newOpportunityInput()
	created, err := store.Opportunities().Create(ctx, input)
	require.NoError(t, err)

	createdDate, err := dal.ParseDate(input.CreatedDate)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.ID, "OPP-"))
	assert.Equal(t, dal.AgeDays(createdDate, time.Now()), created.Age)
	assert.Equal(t, "Q4-2025", created.FiscalPeriod)

	fetched, err := store.Opportunities().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, *created, *fetched)
}

func TestCreate_GeneratesDistinctIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	first, err := store.Opportunities().Create(ctx, newOpportunityInput())
	require.NoError(t, err)
	second, err := store.Opportunities().Create(ctx, newOpportunityInput())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreate_RejectsMalformedCreatedDate(t *testing.T) {
	store := New()
	input := newOpportunityInput()
	input.CreatedDate = "not-a-date"

	_, err := store.Opportunities().Create(context.Background(), input)

	assert.Error(t, err)
}

func TestUpdate_PartialPatchPreservesOtherFields(t *testing.T) {
	store := New()
	ctx := context.Background()

	stage := "Legal Review"
	amount := 99999.0
	updated, err := store.Opportunities().Update(ctx, "OPP-1008", dal.OpportunityPatch{
		Stage:  &stage,
		Amount: &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, "Legal Review", updated.Stage)
	assert.Equal(t, 99999.0, updated.Amount)
	assert.Equal(t, "Crestline Bank - Risk Scoring", updated.Name)
	assert.Equal(t, "Emily Davis", updated.Owner)
	assert.Equal(t, "2025-04-11", updated.CreatedDate)
	assert.Equal(t, dal.HealthMedium, updated.HealthScore)
}

func TestUpdate_RecomputesAgeWhenCreatedDateChanges(t *testing.T) {
	store := New()

	createdDate := dal.FormatDate(time.Now().AddDate(0, 0, -5))
	updated, err := store.Opportunities().Update(context.Background(), "OPP-1001", dal.OpportunityPatch{
		CreatedDate: &createdDate,
	})
	require.NoError(t, err)

	parsed, err := dal.ParseDate(createdDate)
	require.NoError(t, err)

	assert.Equal(t, createdDate, updated.CreatedDate)
	assert.Equal(t, dal.AgeDays(parsed, time.Now()), updated.Age)
}

func TestUpdate_UnknownIDReturnsNotFound(t *testing.T) {
	store := New()

	name := "renamed"
	_, err := store.Opportunities().Update(context.Background(), "OPP-9999", dal.OpportunityPatch{Name: &name})

	assert.True(t, dal.IsNotFound(err))
}

func TestDelete_RemovesRecordAndSecondDeleteFails(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Opportunities().Delete(ctx, "OPP-1003"))

	opp, err := store.Opportunities().GetByID(ctx, "OPP-1003")
	require.NoError(t, err)
	assert.Nil(t, opp)

	err = store.Opportunities().Delete(ctx, "OPP-1003")
	assert.True(t, dal.IsNotFound(err))
}

func TestReset_RestoresSeedSnapshots(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Opportunities().Delete(ctx, "OPP-1001"))
	_, err := store.Config().UpdateStages(ctx, []string{"Only Stage"})
	require.NoError(t, err)

	store.Reset()

	opportunities, err := store.Opportunities().GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, opportunities, 8)

	stages, err := store.Config().GetStages(ctx)
	require.NoError(t, err)
	assert.Len(t, stages, 8)
	assert.Equal(t, "Qualification (SAL)", stages[0])
}

func TestRepMetrics_GetAllAndGetByName(t *testing.T) {
	store := New()
	ctx := context.Background()

	reps, err := store.RepMetrics().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, reps, 4)

	rep, err := store.RepMetrics().GetByName(ctx, "Christopher Tucker")
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, "Enterprise AE", rep.Role)
	assert.Equal(t, "West", rep.Region)
	assert.Equal(t, 2840000.0, rep.PipelineValue)

	missing, err := store.RepMetrics().GetByName(ctx, "Nobody Here")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepMetrics_UpdateMergesPatch(t *testing.T) {
	store := New()

	winRate := 0.45
	quota := 3000000.0
	updated, err := store.RepMetrics().Update(context.Background(), "Sarah Johnson", dal.RepMetricsPatch{
		WinRate: &winRate,
		Quota:   &quota,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.45, updated.WinRate)
	assert.Equal(t, 3000000.0, updated.Quota)
	assert.Equal(t, 287.0, updated.TotalCalls)
	assert.Equal(t, "East", updated.Region)
}

func TestRepMetrics_UpdateUnknownNameReturnsNotFound(t *testing.T) {
	store := New()

	quota := 1.0
	_, err := store.RepMetrics().Update(context.Background(), "Nobody Here", dal.RepMetricsPatch{Quota: &quota})

	assert.True(t, dal.IsNotFound(err))
}

func TestUpdateStages_ReplacesListInOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	replacement := []string{"A", "B", "Closed Won", "Closed Lost"}
	stored, err := store.Config().UpdateStages(ctx, replacement)
	require.NoError(t, err)
	assert.Equal(t, replacement, stored)

	stages, err := store.Config().GetStages(ctx)
	require.NoError(t, err)
	assert.Equal(t, replacement, stages)
}

func TestUpdateStages_StoredCopyIsIsolatedFromCaller(t *testing.T) {
	store := New()
	ctx := context.Background()

	replacement := []string{"A", "B"}
	_, err := store.Config().UpdateStages(ctx, replacement)
	require.NoError(t, err)

	replacement[0] = "mutated"

	stages, err := store.Config().GetStages(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", stages[0])
}

func TestHealthCheckAndDisconnect(t *testing.T) {
	store := New()
	ctx := context.Background()

	assert.True(t, store.HealthCheck(ctx))
	assert.NoError(t, store.Disconnect(ctx))
	assert.NoError(t, store.Disconnect(ctx))
}

func TestDealLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	input := newOpportunityInput()
	created, err := store.Opportunities().Create(ctx, input)
	require.NoError(t, err)

	stage := "Legal Review"
	score := 90.0
	health := dal.HealthHigh
	updated, err := store.Opportunities().Update(ctx, created.ID, dal.OpportunityPatch{
		Stage:           &stage,
		PredictionScore: &score,
		HealthScore:     &health,
	})
	require.NoError(t, err)
	assert.Equal(t, "Legal Review", updated.Stage)
	assert.Equal(t, 90.0, updated.PredictionScore)
	assert.Equal(t, dal.HealthHigh, updated.HealthScore)

	require.NoError(t, store.Opportunities().Delete(ctx, created.ID))

	gone, err := store.Opportunities().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
