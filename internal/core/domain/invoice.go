package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgingBucket classifies an outstanding invoice by days past due.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "CURRENT"
	Bucket1To30   AgingBucket = "DAYS_1_30"
	Bucket31To60  AgingBucket = "DAYS_31_60"
	Bucket61To90  AgingBucket = "DAYS_61_90"
	BucketOver90  AgingBucket = "OVER_90"
)

// AgingBuckets lists the buckets in ascending severity. Report ordering and
// ECL rate lookups iterate this slice.
var AgingBuckets = []AgingBucket{
	BucketCurrent,
	Bucket1To30,
	Bucket31To60,
	Bucket61To90,
	BucketOver90,
}

// Label is the human-readable bucket name used on reports.
func (b AgingBucket) Label() string {
	switch b {
	case BucketCurrent:
		return "Current"
	case Bucket1To30:
		return "1-30 days"
	case Bucket31To60:
		return "31-60 days"
	case Bucket61To90:
		return "61-90 days"
	default:
		return "Over 90 days"
	}
}

// BucketForDaysPastDue maps days overdue to its aging bucket. Zero or
// negative means not yet due.
func BucketForDaysPastDue(days int) AgingBucket {
	switch {
	case days <= 0:
		return BucketCurrent
	case days <= 30:
		return Bucket1To30
	case days <= 60:
		return Bucket31To60
	case days <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// DaysPastDue computes whole days between the due date and asOf, truncated
// to calendar days in the reporting timezone.
func DaysPastDue(dueDate, asOf time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, dueDate.Location())
	at := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	return int(at.Sub(due).Hours() / 24)
}

// ReceivableInvoice is the engine's read-model of an unpaid customer
// invoice. Invoicing itself lives outside the ledger core; the ECL
// processor and AR aging report only consume outstanding state.
type ReceivableInvoice struct {
	InvoiceID         string          `json:"invoiceID"`
	Number            string          `json:"number"`
	CustomerName      string          `json:"customerName"`
	IssueDate         time.Time       `json:"issueDate"`
	DueDate           time.Time       `json:"dueDate"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	IsWrittenOff      bool            `json:"isWrittenOff"`
}
