package dto

import (
	"time"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCashBankBalanceRequest opens one month's cash/bank balance record.
type CreateCashBankBalanceRequest struct {
	Year           int             `json:"year" binding:"required,min=1900"`
	Month          int             `json:"month" binding:"required,min=1,max=12"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Notes          string          `json:"notes"`
}

// UpdateCashBankBalanceRequest patches the manually supplied fields. The
// derived movement fields are always recomputed, never accepted as input.
type UpdateCashBankBalanceRequest struct {
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
	Notes          *string          `json:"notes"`
}

// CashBankBalanceResponse defines the data returned for a balance record.
type CashBankBalanceResponse struct {
	BalanceID      string          `json:"balanceID"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalInflow    decimal.Decimal `json:"totalInflow"`
	TotalOutflow   decimal.Decimal `json:"totalOutflow"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	NetChange      decimal.Decimal `json:"netChange"`
	Notes          string          `json:"notes,omitempty"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// ToCashBankBalanceResponse converts a domain.CashBankBalance to its
// response DTO.
func ToCashBankBalanceResponse(b *domain.CashBankBalance) CashBankBalanceResponse {
	return CashBankBalanceResponse{
		BalanceID:      b.BalanceID,
		Year:           b.Year,
		Month:          b.Month,
		OpeningBalance: b.OpeningBalance,
		TotalInflow:    b.TotalInflow,
		TotalOutflow:   b.TotalOutflow,
		ClosingBalance: b.ClosingBalance,
		NetChange:      b.NetChange(),
		Notes:          b.Notes,
		LastUpdatedAt:  b.LastUpdatedAt,
	}
}

// ToCashBankBalanceResponses converts a slice of balance records.
func ToCashBankBalanceResponses(balances []domain.CashBankBalance) []CashBankBalanceResponse {
	responses := make([]CashBankBalanceResponse, len(balances))
	for i := range balances {
		responses[i] = ToCashBankBalanceResponse(&balances[i])
	}
	return responses
}
