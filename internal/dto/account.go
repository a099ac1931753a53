package dto

import (
	"github.com/arkastudio/studio_ledger/internal/core/domain"
)

// CreateAccountRequest defines the payload for registering an account.
// NormalBalance may be omitted; it is derived from the account type and a
// diverging value is only accepted for contra sub-types.
type CreateAccountRequest struct {
	Code             string               `json:"code" binding:"required"`
	Name             string               `json:"name" binding:"required"`
	AccountType      domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType          string               `json:"subType"`
	NormalBalance    domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	ParentCode       string               `json:"parentCode"`
	IsControlAccount bool                 `json:"isControlAccount"`
	IsTaxAccount     bool                 `json:"isTaxAccount"`
	IsSystemAccount  bool                 `json:"isSystemAccount"`
}

// ListAccountsParams narrows the account listing.
type ListAccountsParams struct {
	AccountType domain.AccountType `form:"type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType     string             `form:"subType"`
	ActiveOnly  bool               `form:"activeOnly"`
	CodePrefix  string             `form:"codePrefix"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	Code             string               `json:"code"`
	Name             string               `json:"name"`
	AccountType      domain.AccountType   `json:"accountType"`
	SubType          string               `json:"subType,omitempty"`
	NormalBalance    domain.NormalBalance `json:"normalBalance"`
	ParentCode       string               `json:"parentCode,omitempty"`
	IsControlAccount bool                 `json:"isControlAccount"`
	IsTaxAccount     bool                 `json:"isTaxAccount"`
	IsActive         bool                 `json:"isActive"`
	IsSystemAccount  bool                 `json:"isSystemAccount"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Code:             a.Code,
		Name:             a.Name,
		AccountType:      a.AccountType,
		SubType:          a.SubType,
		NormalBalance:    a.NormalBalance,
		ParentCode:       a.ParentCode,
		IsControlAccount: a.IsControlAccount,
		IsTaxAccount:     a.IsTaxAccount,
		IsActive:         a.IsActive,
		IsSystemAccount:  a.IsSystemAccount,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
