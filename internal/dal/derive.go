package dal

import (
	"fmt"
	"math"
	"time"
)

// DefaultStages is the canonical pipeline progression, used as the fallback
// when backing storage has never been initialized.
var DefaultStages = []string{
	"Qualification (SAL)",
	"Discovery (SAO)",
	"Consensus / Demo",
	"Proof of Value",
	"Business Negotiation",
	"Legal Review",
	"Closed Won",
	"Closed Lost",
}

// AgeDays returns the whole-day age of a record created at createdDate,
// rounding up: ceil(|now - createdDate| / 24h).
func AgeDays(createdDate, now time.Time) int {
	diff := now.Sub(createdDate)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// FiscalPeriod derives the quarter label from a close date: months 1-3 are
// Q1, 4-6 Q2, 7-9 Q3, 10-12 Q4, suffixed with the year.
func FiscalPeriod(closeDate time.Time) string {
	quarter := (int(closeDate.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d-%d", quarter, closeDate.Year())
}

// InferHealth maps a stored win probability in [0,1] to a health tier.
func InferHealth(probability float64) Health {
	switch {
	case probability >= 0.7:
		return HealthHigh
	case probability >= 0.4:
		return HealthMedium
	default:
		return HealthLow
	}
}

// ParseDate parses a calendar-date string in the exchange format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a timestamp as a calendar-date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
