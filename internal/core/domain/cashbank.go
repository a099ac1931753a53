package domain

import "github.com/shopspring/decimal"

// CashBankBalance is one month's link in the cash/bank balance chain. The
// opening balance is supplied (or re-derived from the prior month's closing
// balance); inflow, outflow and closing balance are always computed from
// posted line items and never hand-edited.
type CashBankBalance struct {
	BalanceID      string          `json:"balanceID"`
	Year           int             `json:"year"`
	Month          int             `json:"month"` // 1..12
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalInflow    decimal.Decimal `json:"totalInflow"`
	TotalOutflow   decimal.Decimal `json:"totalOutflow"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Notes          string          `json:"notes"`
	AuditFields
}

// NetChange is totalInflow - totalOutflow.
func (b CashBankBalance) NetChange() decimal.Decimal {
	return b.TotalInflow.Sub(b.TotalOutflow)
}

// Recompute derives the closing balance from the current opening balance
// and movement totals.
func (b *CashBankBalance) Recompute() {
	b.ClosingBalance = b.OpeningBalance.Add(b.TotalInflow).Sub(b.TotalOutflow)
}

// PreviousMonth returns the (year, month) pair immediately before the
// receiver's period; January wraps to December of the prior year.
func (b CashBankBalance) PreviousMonth() (int, int) {
	if b.Month == 1 {
		return b.Year - 1, 12
	}
	return b.Year, b.Month - 1
}
