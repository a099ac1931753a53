package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's aggregated posted activity as of a date.
// Balance is signed by the account's normal side: debit-normal accounts
// report debit-credit, credit-normal accounts report credit-debit.
type TrialBalanceRow struct {
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Balance       decimal.Decimal `json:"balance"`
	IsAbnormal    bool            `json:"isAbnormal"`
}

// TrialBalance is the full as-of aggregation plus its balance check. When
// total debits and credits diverge the report carries the difference rather
// than hiding it.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Difference  decimal.Decimal   `json:"difference"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountAmount is an account with its net amount on a statement.
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// IncomeStatement covers a date range.
type IncomeStatement struct {
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	ProfitMargin  decimal.Decimal `json:"profitMargin"` // percent; zero when revenue is zero
}

// BalanceSheet is the position statement at a date. CurrentEarnings is the
// un-closed revenue-minus-expense result folded into equity so the
// accounting equation holds on engine-generated data.
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	CurrentEarnings  decimal.Decimal `json:"currentEarnings"`
	Difference       decimal.Decimal `json:"difference"`
	IsBalanced       bool            `json:"isBalanced"`
}

// CashFlowCategory buckets cash movements by activity.
type CashFlowCategory string

const (
	Operating CashFlowCategory = "OPERATING"
	Investing CashFlowCategory = "INVESTING"
	Financing CashFlowCategory = "FINANCING"
)

// CashFlowLine is one classified cash movement.
type CashFlowLine struct {
	EntryID     string           `json:"entryID"`
	EntryDate   time.Time        `json:"entryDate"`
	SourceType  SourceType       `json:"sourceType"`
	Category    CashFlowCategory `json:"category"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"` // positive inflow, negative outflow
}

// CashFlowStatement covers a date range.
type CashFlowStatement struct {
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	Operating      []CashFlowLine  `json:"operating"`
	Investing      []CashFlowLine  `json:"investing"`
	Financing      []CashFlowLine  `json:"financing"`
	TotalOperating decimal.Decimal `json:"totalOperating"`
	TotalInvesting decimal.Decimal `json:"totalInvesting"`
	TotalFinancing decimal.Decimal `json:"totalFinancing"`
	NetCashFlow    decimal.Decimal `json:"netCashFlow"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// ARAgingRow is one unpaid invoice on the aging report.
type ARAgingRow struct {
	InvoiceID         string          `json:"invoiceID"`
	Number            string          `json:"number"`
	CustomerName      string          `json:"customerName"`
	DueDate           time.Time       `json:"dueDate"`
	DaysOverdue       int             `json:"daysOverdue"`
	Bucket            AgingBucket     `json:"bucket"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
}

// ARAgingReport groups outstanding receivables by aging bucket.
type ARAgingReport struct {
	AsOf         time.Time                       `json:"asOf"`
	Rows         []ARAgingRow                    `json:"rows"`
	BucketTotals map[AgingBucket]decimal.Decimal `json:"bucketTotals"`
	GrandTotal   decimal.Decimal                 `json:"grandTotal"`
}
