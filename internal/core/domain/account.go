package domain

import "strings"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account type is expected to carry a
// positive balance.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// ContraSubTypePrefix marks sub-types whose normal balance is allowed to
// diverge from the one implied by the account type (e.g. CONTRA_ASSET for
// accumulated depreciation).
const ContraSubTypePrefix = "CONTRA"

// Account represents one account in the chart of accounts. Codes are
// hierarchical by prefix; the "1-1" subtree holds cash and bank accounts.
type Account struct {
	Code             string        `json:"code"`
	Name             string        `json:"name"`
	AccountType      AccountType   `json:"accountType"`
	SubType          string        `json:"subType"`
	NormalBalance    NormalBalance `json:"normalBalance"`
	ParentCode       string        `json:"parentCode"` // empty when top-level
	IsControlAccount bool          `json:"isControlAccount"`
	IsTaxAccount     bool          `json:"isTaxAccount"`
	IsActive         bool          `json:"isActive"`
	IsSystemAccount  bool          `json:"isSystemAccount"`
	AuditFields
}

// DeriveNormalBalance returns the normal balance implied by an account type:
// ASSET and EXPENSE carry debit balances, the rest carry credit balances.
func DeriveNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// IsContra reports whether the account's sub-type marks it as a contra
// account, which is the only case where the normal balance may diverge from
// the type-implied side.
func (a Account) IsContra() bool {
	return strings.HasPrefix(strings.ToUpper(a.SubType), ContraSubTypePrefix)
}

// ValidAccountType reports whether t is one of the five known types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}
