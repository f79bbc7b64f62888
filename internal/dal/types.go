package dal

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Health is the coarse deal-health tier.
type Health string

const (
	HealthHigh   Health = "high"
	HealthMedium Health = "medium"
	HealthLow    Health = "low"
)

// DateLayout is the calendar-date format used in exchanged records.
// Records carry dates without a time component.
const DateLayout = "2006-01-02"

// Opportunity is one sales deal as exchanged between the DAL and its
// callers. Owner, role, and region are denormalized strings, not keys.
type Opportunity struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Owner           string  `json:"owner"`
	OwnerRole       string  `json:"ownerRole"`
	Region          string  `json:"region"`
	CreatedDate     string  `json:"createdDate"`
	CloseDate       string  `json:"closeDate"`
	Stage           string  `json:"stage"`
	AccountName     string  `json:"accountName"`
	Amount          float64 `json:"amount"`
	Source          string  `json:"source"`
	Age             int     `json:"age"`
	FiscalPeriod    string  `json:"fiscalPeriod"`
	PredictionScore float64 `json:"predictionScore"`
	HealthScore     Health  `json:"healthScore"`
}

// NewOpportunity is the creation payload. The backend assigns the id and
// computes the age.
type NewOpportunity struct {
	Name            string  `json:"name" validate:"required"`
	Owner           string  `json:"owner" validate:"required"`
	OwnerRole       string  `json:"ownerRole"`
	Region          string  `json:"region"`
	CreatedDate     string  `json:"createdDate" validate:"required,datetime=2006-01-02"`
	CloseDate       string  `json:"closeDate" validate:"required,datetime=2006-01-02"`
	Stage           string  `json:"stage" validate:"required"`
	AccountName     string  `json:"accountName" validate:"required"`
	Amount          float64 `json:"amount" validate:"gte=0"`
	Source          string  `json:"source"`
	FiscalPeriod    string  `json:"fiscalPeriod"`
	PredictionScore float64 `json:"predictionScore" validate:"gte=0,lte=100"`
	HealthScore     Health  `json:"healthScore" validate:"required,oneof=high medium low"`
}

// Validate checks the creation payload using the validator.
func (n *NewOpportunity) Validate() error {
	validate := validator.New()
	return validate.Struct(n)
}

// OpportunityPatch is a partial update; only non-nil fields apply.
type OpportunityPatch struct {
	Name            *string  `json:"name,omitempty"`
	Owner           *string  `json:"owner,omitempty"`
	OwnerRole       *string  `json:"ownerRole,omitempty"`
	Region          *string  `json:"region,omitempty"`
	CreatedDate     *string  `json:"createdDate,omitempty"`
	CloseDate       *string  `json:"closeDate,omitempty"`
	Stage           *string  `json:"stage,omitempty"`
	AccountName     *string  `json:"accountName,omitempty"`
	Amount          *float64 `json:"amount,omitempty"`
	Source          *string  `json:"source,omitempty"`
	FiscalPeriod    *string  `json:"fiscalPeriod,omitempty"`
	PredictionScore *float64 `json:"predictionScore,omitempty"`
	HealthScore     *Health  `json:"healthScore,omitempty"`
}

// RepMetrics is one salesperson's aggregate performance snapshot. The name
// acts as the natural key. Numeric metrics are zero when absent from the
// underlying storage, never null.
type RepMetrics struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	Region          string  `json:"region"`
	TotalCalls      float64 `json:"totalCalls"`
	CallsPerWeek    float64 `json:"callsPerWeek"`
	TimeOnCalls     float64 `json:"timeOnCalls"`
	AvgCallDuration float64 `json:"avgCallDuration"`
	Opportunities   float64 `json:"opportunities"`
	PipelineValue   float64 `json:"pipelineValue"`
	ClosedWon       float64 `json:"closedWon"`
	WinRate         float64 `json:"winRate"`
	AvgDealSize     float64 `json:"avgDealSize"`
	Quota           float64 `json:"quota"`
	QuotaAttainment float64 `json:"quotaAttainment"`
}

// RepMetricsPatch is a partial update keyed by rep name.
type RepMetricsPatch struct {
	Email           *string  `json:"email,omitempty"`
	Role            *string  `json:"role,omitempty"`
	Region          *string  `json:"region,omitempty"`
	TotalCalls      *float64 `json:"totalCalls,omitempty"`
	CallsPerWeek    *float64 `json:"callsPerWeek,omitempty"`
	TimeOnCalls     *float64 `json:"timeOnCalls,omitempty"`
	AvgCallDuration *float64 `json:"avgCallDuration,omitempty"`
	Opportunities   *float64 `json:"opportunities,omitempty"`
	PipelineValue   *float64 `json:"pipelineValue,omitempty"`
	ClosedWon       *float64 `json:"closedWon,omitempty"`
	WinRate         *float64 `json:"winRate,omitempty"`
	AvgDealSize     *float64 `json:"avgDealSize,omitempty"`
	Quota           *float64 `json:"quota,omitempty"`
	QuotaAttainment *float64 `json:"quotaAttainment,omitempty"`
}

// DateRange is an inclusive creation-date window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Filters narrows GetAll results. Fields are independently optional and
// conjunctive: every present filter must match.
type Filters struct {
	Stage     string     `json:"stage,omitempty"`
	Rep       string     `json:"rep,omitempty"`
	Region    string     `json:"region,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
}
