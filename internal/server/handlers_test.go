package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/stack-ranker/internal/dal"
	"github.com/jonathan/stack-ranker/internal/dal/memory"
	"github.com/jonathan/stack-ranker/internal/logging"
)

// newTestServer builds a server over a freshly seeded in-memory backend.
func newTestServer() *Server {
	return New(Config{Port: 0}, memory.New(), logging.NewNop())
}

// doRequest runs a request through the full middleware chain and routes.
func doRequest(s *Server, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListOpportunities(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/opportunities", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var opportunities []dal.Opportunity
	require.NoError(t, json.Unmarshal(env.Data, &opportunities))
	assert.Len(t, opportunities, 8)
}

func TestListOpportunities_QueryFilters(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/opportunities?region=West&stage=Proof+of+Value", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var opportunities []dal.Opportunity
	require.NoError(t, json.Unmarshal(env.Data, &opportunities))
	require.Len(t, opportunities, 1)
	assert.Equal(t, "OPP-1003", opportunities[0].ID)
}

func TestListOpportunities_InvalidDateRange(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/opportunities?startDate=bogus&endDate=2025-12-31", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "startDate")
}

func TestGetOpportunity(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/opportunities/OPP-1001", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var opp dal.Opportunity
	require.NoError(t, json.Unmarshal(env.Data, &opp))
	assert.Equal(t, "TechCorp - Data Governance Platform", opp.Name)
	assert.Equal(t, "Christopher Tucker", opp.Owner)
}

func TestGetOpportunity_NotFound(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/opportunities/OPP-9999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestCreateOpportunity(t *testing.T) {
	s := newTestServer()

	input := dal.NewOpportunity{
		Name:            "Helios Energy - Forecasting Suite",
		Owner:           "Mike Chen",
		OwnerRole:       "Mid-Market AE",
		Region:          "West",
		CreatedDate:     "2025-05-01",
		CloseDate:       "2025-10-31",
		Stage:           "Qualification (SAL)",
		AccountName:     "Helios Energy",
		Amount:          75000,
		Source:          "Trade Show",
		FiscalPeriod:    "Q4-2025",
		PredictionScore: 40,
		HealthScore:     dal.HealthMedium,
	}

	w := doRequest(s, http.MethodPost, "/api/opportunities", input)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var created dal.Opportunity
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Helios Energy - Forecasting Suite", created.Name)

	get := doRequest(s, http.MethodGet, "/api/opportunities/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, get.Code)
}

func TestCreateOpportunity_ValidationFailure(t *testing.T) {
	s := newTestServer()

	input := map[string]any{
		"name":        "",
		"owner":       "Mike Chen",
		"createdDate": "2025-05-01",
		"closeDate":   "2025-10-31",
		"stage":       "Qualification (SAL)",
		"accountName": "Helios Energy",
		"healthScore": "medium",
	}

	w := doRequest(s, http.MethodPost, "/api/opportunities", input)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestCreateOpportunity_MalformedBody(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/opportunities", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOpportunity(t *testing.T) {
	s := newTestServer()

	patch := map[string]any{"stage": "Legal Review", "amount": 99999}
	w := doRequest(s, http.MethodPut, "/api/opportunities/OPP-1002", patch)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var updated dal.Opportunity
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Legal Review", updated.Stage)
	assert.Equal(t, 99999.0, updated.Amount)
	assert.Equal(t, "GlobalFinance - Privacy Suite", updated.Name)
}

func TestUpdateOpportunity_NotFound(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodPut, "/api/opportunities/OPP-9999", map[string]any{"stage": "Legal Review"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteOpportunity(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodDelete, "/api/opportunities/OPP-1007", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	get := doRequest(s, http.MethodGet, "/api/opportunities/OPP-1007", nil)
	assert.Equal(t, http.StatusNotFound, get.Code)

	again := doRequest(s, http.MethodDelete, "/api/opportunities/OPP-1007", nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestListReps(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/reps", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var reps []dal.RepMetrics
	require.NoError(t, json.Unmarshal(env.Data, &reps))
	assert.Len(t, reps, 4)
}

func TestGetRep(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/reps/Sarah%20Johnson", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var rep dal.RepMetrics
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	assert.Equal(t, "Sarah Johnson", rep.Name)
	assert.Equal(t, "East", rep.Region)
}

func TestGetRep_NotFound(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/reps/Nobody%20Here", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRep(t *testing.T) {
	s := newTestServer()

	patch := map[string]any{"quota": 2750000, "winRate": 0.38}
	w := doRequest(s, http.MethodPut, "/api/reps/Christopher%20Tucker", patch)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var rep dal.RepMetrics
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	assert.Equal(t, 2750000.0, rep.Quota)
	assert.Equal(t, 0.38, rep.WinRate)
	assert.Equal(t, 312.0, rep.TotalCalls)
}

func TestGetStages(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/config/stages", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var payload stagesPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Len(t, payload.Stages, 8)
	assert.Equal(t, "Qualification (SAL)", payload.Stages[0])
	assert.Equal(t, "Closed Lost", payload.Stages[7])
}

func TestUpdateStages(t *testing.T) {
	s := newTestServer()

	replacement := []string{"Prospecting", "Evaluation", "Closed Won", "Closed Lost"}
	w := doRequest(s, http.MethodPut, "/api/config/stages", stagesPayload{Stages: replacement})

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var payload stagesPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, replacement, payload.Stages)

	get := doRequest(s, http.MethodGet, "/api/config/stages", nil)
	getEnv := decodeEnvelope(t, get)
	require.NoError(t, json.Unmarshal(getEnv.Data, &payload))
	assert.Equal(t, replacement, payload.Stages)
}

func TestUpdateStages_EmptyListRejected(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodPut, "/api/config/stages", stagesPayload{Stages: nil})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()

	// Generate one observed request before scraping.
	doRequest(s, http.MethodGet, "/api/opportunities", nil)

	w := doRequest(s, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ranker_http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodGet, "/api/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer()

	w := doRequest(s, http.MethodOptions, "/api/opportunities", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
