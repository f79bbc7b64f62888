// Package seed holds the static sample datasets that back the in-memory
// store and the database seed command. Accessors return copies so callers
// can never mutate the seed snapshots.
package seed

import (
	"github.com/jonathan/stack-ranker/internal/dal"
)

var stages = []string{
	"Qualification (SAL)",
	"Discovery (SAO)",
	"Consensus / Demo",
	"Proof of Value",
	"Business Negotiation",
	"Legal Review",
	"Closed Won",
	"Closed Lost",
}

var repMetrics = []dal.RepMetrics{
	{
		Name:            "Christopher Tucker",
		Email:           "christopher.tucker@example.com",
		Role:            "Enterprise AE",
		Region:          "West",
		TotalCalls:      312,
		CallsPerWeek:    26,
		TimeOnCalls:     148,
		AvgCallDuration: 28.5,
		Opportunities:   14,
		PipelineValue:   2840000,
		ClosedWon:       5,
		WinRate:         0.36,
		AvgDealSize:     202857,
		Quota:           2500000,
		QuotaAttainment: 0.41,
	},
	{
		Name:            "Sarah Johnson",
		Email:           "sarah.johnson@example.com",
		Role:            "Enterprise AE",
		Region:          "East",
		TotalCalls:      287,
		CallsPerWeek:    24,
		TimeOnCalls:     131,
		AvgCallDuration: 27.4,
		Opportunities:   15,
		PipelineValue:   3120000,
		ClosedWon:       6,
		WinRate:         0.4,
		AvgDealSize:     208000,
		Quota:           2500000,
		QuotaAttainment: 0.5,
	},
	{
		Name:            "Mike Chen",
		Email:           "mike.chen@example.com",
		Role:            "Mid-Market AE",
		Region:          "West",
		TotalCalls:      341,
		CallsPerWeek:    28,
		TimeOnCalls:     156,
		AvgCallDuration: 27.5,
		Opportunities:   12,
		PipelineValue:   1460000,
		ClosedWon:       4,
		WinRate:         0.33,
		AvgDealSize:     121667,
		Quota:           1500000,
		QuotaAttainment: 0.32,
	},
	{
		Name:            "Emily Davis",
		Email:           "emily.davis@example.com",
		Role:            "Mid-Market AE",
		Region:          "East",
		TotalCalls:      298,
		CallsPerWeek:    25,
		TimeOnCalls:     139,
		AvgCallDuration: 28.0,
		Opportunities:   11,
		PipelineValue:   1280000,
		ClosedWon:       3,
		WinRate:         0.27,
		AvgDealSize:     116364,
		Quota:           1500000,
		QuotaAttainment: 0.24,
	},
}

var opportunities = []dal.Opportunity{
	{
		ID:              "OPP-1001",
		Name:            "TechCorp - Data Governance Platform",
		Owner:           "Christopher Tucker",
		OwnerRole:       "Enterprise AE",
		Region:          "West",
		CreatedDate:     "2025-01-14",
		CloseDate:       "2025-09-30",
		Stage:           "Business Negotiation",
		AccountName:     "TechCorp",
		Amount:          480000,
		Source:          "Inbound Website",
		Age:             120,
		FiscalPeriod:    "Q3-2025",
		PredictionScore: 85,
		HealthScore:     dal.HealthHigh,
	},
	{
		ID:              "OPP-1002",
		Name:            "GlobalFinance - Privacy Suite",
		Owner:           "Sarah Johnson",
		OwnerRole:       "Enterprise AE",
		Region:          "East",
		CreatedDate:     "2025-02-03",
		CloseDate:       "2025-12-15",
		Stage:           "Discovery (SAO)",
		AccountName:     "GlobalFinance",
		Amount:          620000,
		Source:          "Partner Referral",
		Age:             100,
		FiscalPeriod:    "Q4-2025",
		PredictionScore: 45,
		HealthScore:     dal.HealthMedium,
	},
	{
		ID:              "OPP-1003",
		Name:            "RetailCorp - Catalog Discovery",
		Owner:           "Mike Chen",
		OwnerRole:       "Mid-Market AE",
		Region:          "West",
		CreatedDate:     "2025-03-21",
		CloseDate:       "2025-08-29",
		Stage:           "Proof of Value",
		AccountName:     "RetailCorp",
		Amount:          145000,
		Source:          "Cold Email",
		Age:             54,
		FiscalPeriod:    "Q3-2025",
		PredictionScore: 62,
		HealthScore:     dal.HealthMedium,
	},
	{
		ID:              "OPP-1004",
		Name:            "Meridian Health - Compliance Rollout",
		Owner:           "Emily Davis",
		OwnerRole:       "Mid-Market AE",
		Region:          "East",
		CreatedDate:     "2025-04-02",
		CloseDate:       "2025-11-07",
		Stage:           "Qualification (SAL)",
		AccountName:     "Meridian Health",
		Amount:          98000,
		Source:          "LinkedIn Ads",
		Age:             42,
		FiscalPeriod:    "Q4-2025",
		PredictionScore: 30,
		HealthScore:     dal.HealthLow,
	},
	{
		ID:              "OPP-1005",
		Name:            "Northwind Logistics - Analytics Expansion",
		Owner:           "Christopher Tucker",
		OwnerRole:       "Enterprise AE",
		Region:          "West",
		CreatedDate:     "2025-02-18",
		CloseDate:       "2025-07-25",
		Stage:           "Legal Review",
		AccountName:     "Northwind Logistics",
		Amount:          310000,
		Source:          "Inbound Website",
		Age:             88,
		FiscalPeriod:    "Q3-2025",
		PredictionScore: 91,
		HealthScore:     dal.HealthHigh,
	},
	{
		ID:              "OPP-1006",
		Name:            "Apex Manufacturing - Quality Metrics",
		Owner:           "Sarah Johnson",
		OwnerRole:       "Enterprise AE",
		Region:          "East",
		CreatedDate:     "2025-01-30",
		CloseDate:       "2025-06-13",
		Stage:           "Closed Won",
		AccountName:     "Apex Manufacturing",
		Amount:          275000,
		Source:          "Trade Show",
		Age:             104,
		FiscalPeriod:    "Q2-2025",
		PredictionScore: 100,
		HealthScore:     dal.HealthHigh,
	},
	{
		ID:              "OPP-1007",
		Name:            "BlueSky Media - Audience Insights",
		Owner:           "Mike Chen",
		OwnerRole:       "Mid-Market AE",
		Region:          "West",
		CreatedDate:     "2025-03-05",
		CloseDate:       "2025-05-22",
		Stage:           "Closed Lost",
		AccountName:     "BlueSky Media",
		Amount:          67000,
		Source:          "Cold Email",
		Age:             70,
		FiscalPeriod:    "Q2-2025",
		PredictionScore: 0,
		HealthScore:     dal.HealthLow,
	},
	{
		ID:              "OPP-1008",
		Name:            "Crestline Bank - Risk Scoring",
		Owner:           "Emily Davis",
		OwnerRole:       "Mid-Market AE",
		Region:          "East",
		CreatedDate:     "2025-04-11",
		CloseDate:       "2026-01-16",
		Stage:           "Discovery (SAO)",
		AccountName:     "Crestline Bank",
		Amount:          188000,
		Source:          "Partner Referral",
		Age:             33,
		FiscalPeriod:    "Q1-2026",
		PredictionScore: 55,
		HealthScore:     dal.HealthMedium,
	},
}

// Stages returns a copy of the canonical sample stage list.
func Stages() []string {
	out := make([]string, len(stages))
	copy(out, stages)
	return out
}

// RepMetrics returns a copy of the sample rep metric snapshots.
func RepMetrics() []dal.RepMetrics {
	out := make([]dal.RepMetrics, len(repMetrics))
	copy(out, repMetrics)
	return out
}

// Opportunities returns a copy of the sample opportunities.
func Opportunities() []dal.Opportunity {
	out := make([]dal.Opportunity, len(opportunities))
	copy(out, opportunities)
	return out
}
