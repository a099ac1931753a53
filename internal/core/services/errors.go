package services

import (
	"fmt"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
)

// Business-rule errors raised by the ledger services. Each wraps one of the
// apperrors taxonomy sentinels so callers can match on the specific kind or
// on the class (validation / state / conflict / not-found).
var (
	// Journal entry validation.
	ErrInsufficientLines = fmt.Errorf("%w: journal entry requires at least two line items", apperrors.ErrValidation)
	ErrMissingAccount    = fmt.Errorf("%w: line item is missing an account code", apperrors.ErrValidation)
	ErrInvalidLineSign   = fmt.Errorf("%w: line item must carry exactly one of debit or credit, positive", apperrors.ErrValidation)
	ErrEntryUnbalanced   = fmt.Errorf("%w: debit and credit totals differ", apperrors.ErrValidation)

	// Entry and period state.
	ErrPeriodClosed    = fmt.Errorf("%w: fiscal period is closed", apperrors.ErrConflict)
	ErrImmutableEntry  = fmt.Errorf("%w: posted entries are immutable", apperrors.ErrConflict)
	ErrNotPosted       = fmt.Errorf("%w: entry is not posted", apperrors.ErrConflict)
	ErrAlreadyReversed = fmt.Errorf("%w: entry has already been reversed", apperrors.ErrConflict)
	ErrNoFiscalPeriod  = fmt.Errorf("%w: no fiscal period covers the date", apperrors.ErrNotFound)

	// Chart of accounts.
	ErrProtectedAccount      = fmt.Errorf("%w: system accounts cannot be modified or deleted", apperrors.ErrProtected)
	ErrAccountInUse          = fmt.Errorf("%w: account is referenced by posted line items", apperrors.ErrProtected)
	ErrNormalBalanceMismatch = fmt.Errorf("%w: normal balance diverges from the account type", apperrors.ErrValidation)

	// Cash/bank balance chain.
	ErrDuplicatePeriodBalance = fmt.Errorf("%w: cash/bank balance already exists for that month", apperrors.ErrDuplicate)
)
