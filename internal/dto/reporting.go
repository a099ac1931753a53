package dto

import "time"

// TrialBalanceOptions controls which accounts appear on the trial balance.
type TrialBalanceOptions struct {
	IncludeInactive     bool `form:"includeInactive"`
	IncludeZeroBalances bool `form:"includeZeroBalances"`
}

// DateRangeParams is the common from/to query for range statements.
type DateRangeParams struct {
	StartDate time.Time `form:"startDate" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"endDate" time_format:"2006-01-02" binding:"required"`
}

// AsOfParams is the common as-of query for point-in-time reports.
type AsOfParams struct {
	AsOf time.Time `form:"asOf" time_format:"2006-01-02" binding:"required"`
}

// ProcessRunRequest triggers a batch processing run (depreciation or ECL)
// for the given date.
type ProcessRunRequest struct {
	Date     time.Time `json:"date" binding:"required"`
	AutoPost bool      `json:"autoPost"`
}
