package accounting

import (
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyScale is the fixed number of fractional digits for all monetary
// values in the reporting currency.
const MoneyScale = 2

// RoundMoney rounds to the monetary scale with banker's rounding.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyScale)
}

// SignedBalance nets an account's debit and credit totals onto its normal
// side: debit-normal accounts report debit-credit, credit-normal accounts
// report credit-debit.
func SignedBalance(normal domain.NormalBalance, debit, credit decimal.Decimal) decimal.Decimal {
	if normal == domain.DebitNormal {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// IsAbnormal reports whether a signed balance contradicts the account's
// normal side (e.g. a debit-normal account showing a net credit).
func IsAbnormal(balance decimal.Decimal) bool {
	return balance.IsNegative()
}

// NetDebit is the debit-minus-credit net, the natural sign for asset and
// expense aggregation.
func NetDebit(debit, credit decimal.Decimal) decimal.Decimal {
	return debit.Sub(credit)
}

// NetCredit is the credit-minus-debit net, the natural sign for liability,
// equity and revenue aggregation.
func NetCredit(debit, credit decimal.Decimal) decimal.Decimal {
	return credit.Sub(debit)
}
