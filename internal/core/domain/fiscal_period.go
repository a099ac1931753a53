package domain

import "time"

// PeriodType is the granularity of a fiscal period.
type PeriodType string

const (
	Monthly   PeriodType = "MONTHLY"
	Quarterly PeriodType = "QUARTERLY"
	Yearly    PeriodType = "YEARLY"
)

// PeriodStatus gates posting: only OPEN periods accept entries.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// FiscalPeriod is a bounded accounting window.
type FiscalPeriod struct {
	PeriodID   string       `json:"periodID"`
	Code       string       `json:"code"` // e.g. 2026-08
	Name       string       `json:"name"`
	PeriodType PeriodType   `json:"periodType"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"`
	Status     PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether d falls inside the period window (inclusive).
func (p FiscalPeriod) Contains(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// IsClosed reports whether the period rejects postings.
func (p FiscalPeriod) IsClosed() bool {
	return p.Status == PeriodClosed
}
