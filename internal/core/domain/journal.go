package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
)

// SourceType identifies the business transaction an entry originated from.
// It drives the cash-flow classification table, so values are a closed set.
type SourceType string

const (
	SourceManual           SourceType = "MANUAL"
	SourceInvoicePayment   SourceType = "INVOICE_PAYMENT"
	SourceVendorPayment    SourceType = "VENDOR_PAYMENT"
	SourcePayroll          SourceType = "PAYROLL"
	SourceOperatingExpense SourceType = "OPERATING_EXPENSE"
	SourceTaxPayment       SourceType = "TAX_PAYMENT"
	SourceAssetPurchase    SourceType = "ASSET_PURCHASE"
	SourceAssetDisposal    SourceType = "ASSET_DISPOSAL"
	SourceLoanDrawdown     SourceType = "LOAN_DRAWDOWN"
	SourceLoanRepayment    SourceType = "LOAN_REPAYMENT"
	SourceCapitalInjection SourceType = "CAPITAL_INJECTION"
	SourceOwnerDrawing     SourceType = "OWNER_DRAWING"
	SourceDepreciation     SourceType = "DEPRECIATION"
	SourceECLProvision     SourceType = "ECL_PROVISION"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple line items. Once posted it is immutable; corrections happen via
// reversal entries, never edits.
type JournalEntry struct {
	EntryID        string        `json:"entryID"`
	EntryNumber    string        `json:"entryNumber"` // human readable, e.g. JE-2026-00042
	EntryDate      time.Time     `json:"entryDate"`
	PostingDate    *time.Time    `json:"postingDate,omitempty"`
	Description    string        `json:"description"`
	SourceType     SourceType    `json:"sourceType"`
	SourceID       string        `json:"sourceID"`
	DocumentRef    string        `json:"documentRef"`
	Status         EntryStatus   `json:"status"`
	FiscalPeriodID string        `json:"fiscalPeriodID"`
	IsReversing    bool          `json:"isReversing"`
	ReversedEntryID *string      `json:"reversedEntryID,omitempty"` // set on the reversing entry, points at the original
	PostedBy       string        `json:"postedBy"`
	Lines          []JournalLine `json:"lines"`
	AuditFields
}

// JournalLine is one side of a journal entry. Exactly one of Debit and
// Credit is non-zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	TaxCode     string          `json:"taxCode,omitempty"`
}

// TotalDebit sums the debit side of the entry.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Debit)
	}
	return sum
}

// TotalCredit sums the credit side of the entry.
func (e JournalEntry) TotalCredit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}

// IsBalanced reports whether debit and credit totals are exactly equal.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// PostedLine is the flattened read-model used by aggregation queries: a
// posted line item joined with the header fields the calculators need.
type PostedLine struct {
	EntryID     string          `json:"entryID"`
	EntryDate   time.Time       `json:"entryDate"`
	SourceType  SourceType      `json:"sourceType"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}
