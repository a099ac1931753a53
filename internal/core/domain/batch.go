package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationDetail is the per-asset outcome of one depreciation run.
type DepreciationDetail struct {
	AssetID          string          `json:"assetID"`
	AssetName        string          `json:"assetName"`
	Method           DepreciationMethod `json:"method"`
	Amount           decimal.Decimal `json:"amount"`
	AccumulatedAfter decimal.Decimal `json:"accumulatedAfter"`
	NetBookValue     decimal.Decimal `json:"netBookValue"`
	EntryID          string          `json:"entryID,omitempty"`
	Skipped          bool            `json:"skipped"`
	Error            string          `json:"error,omitempty"`
}

// DepreciationRunResult summarizes a monthly depreciation run. A single
// asset's failure is recorded here and does not abort the run.
type DepreciationRunResult struct {
	PeriodDate time.Time            `json:"periodDate"`
	Processed  int                  `json:"processed"`
	Posted     int                  `json:"posted"`
	Skipped    int                  `json:"skipped"`
	Failed     int                  `json:"failed"`
	Details    []DepreciationDetail `json:"details"`
}

// ECLInvoiceDetail is the per-invoice outcome of one ECL provisioning run.
type ECLInvoiceDetail struct {
	InvoiceID         string          `json:"invoiceID"`
	Number            string          `json:"number"`
	DaysPastDue       int             `json:"daysPastDue"`
	Bucket            AgingBucket     `json:"bucket"`
	Rate              decimal.Decimal `json:"rate"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	ECLAmount         decimal.Decimal `json:"eclAmount"`
}

// ECLRunResult summarizes an expected-credit-loss provisioning run. The
// bucket totals and the invoice details both reconcile to TotalECLAmount.
type ECLRunResult struct {
	CalculationDate time.Time                       `json:"calculationDate"`
	Processed       int                             `json:"processed"`
	Posted          int                             `json:"posted"`
	TotalECLAmount  decimal.Decimal                 `json:"totalECLAmount"`
	EntryID         string                          `json:"entryID,omitempty"`
	Details         []ECLInvoiceDetail              `json:"details"`
	BucketTotals    map[AgingBucket]decimal.Decimal `json:"bucketTotals"`
}
