package dal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validNewOpportunity() NewOpportunity {
	return NewOpportunity{
		Name:            "Acme Expansion",
		Owner:           "Sarah Johnson",
		OwnerRole:       "Enterprise AE",
		Region:          "East",
		CreatedDate:     "2025-01-10",
		CloseDate:       "2025-06-30",
		Stage:           "Discovery (SAO)",
		AccountName:     "Acme Corp",
		Amount:          120000,
		Source:          "Outbound",
		PredictionScore: 65,
		HealthScore:     HealthMedium,
	}
}

func TestNewOpportunityValidate_Valid(t *testing.T) {
	input := validNewOpportunity()

	assert.NoError(t, input.Validate())
}

func TestNewOpportunityValidate_MissingName(t *testing.T) {
	input := validNewOpportunity()
	input.Name = ""

	assert.Error(t, input.Validate())
}

func TestNewOpportunityValidate_MalformedCloseDate(t *testing.T) {
	input := validNewOpportunity()
	input.CloseDate = "June 30, 2025"

	assert.Error(t, input.Validate())
}

func TestNewOpportunityValidate_NegativeAmount(t *testing.T) {
	input := validNewOpportunity()
	input.Amount = -500

	assert.Error(t, input.Validate())
}

func TestNewOpportunityValidate_PredictionScoreOutOfRange(t *testing.T) {
	input := validNewOpportunity()
	input.PredictionScore = 120

	assert.Error(t, input.Validate())
}

func TestNewOpportunityValidate_UnknownHealth(t *testing.T) {
	input := validNewOpportunity()
	input.HealthScore = Health("critical")

	assert.Error(t, input.Validate())
}

func TestIsNotFound(t *testing.T) {
	err := &NotFoundError{Entity: "opportunity", Key: "OPP-404"}

	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(assert.AnError))
	assert.False(t, IsNotFound(nil))
}
