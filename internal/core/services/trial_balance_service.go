package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/utils/accounting"
)

// TrialBalanceService aggregates posted line items per account as of a
// date. Only posted entries count; drafts never reach a trial balance.
type TrialBalanceService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	journalRepo portsrepo.JournalRepository
}

// NewTrialBalanceService creates a new TrialBalanceService.
func NewTrialBalanceService(accountRepo portsrepo.AccountRepository, journalRepo portsrepo.JournalRepository) *TrialBalanceService {
	return &TrialBalanceService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

var _ portssvc.TrialBalanceSvc = (*TrialBalanceService)(nil)

// ComputeAsOf builds the trial balance at the given date. Each account's
// net balance is signed by its normal side and flagged abnormal when the
// sign contradicts it. If total debits and credits diverge the report says
// so and carries the difference; the condition is surfaced, never hidden.
func (s *TrialBalanceService) ComputeAsOf(ctx context.Context, asOf time.Time, opts dto.TrialBalanceOptions) (*domain.TrialBalance, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{ActiveOnly: !opts.IncludeInactive})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	lines, err := s.journalRepo.ListPostedLines(ctx, portsrepo.LineFilter{DateTo: &asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to load posted lines", slog.String("as_of", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to load posted lines: %w", err)
	}

	type sums struct{ debit, credit decimal.Decimal }
	byAccount := make(map[string]sums, len(accounts))
	for _, l := range lines {
		agg := byAccount[l.AccountCode]
		agg.debit = agg.debit.Add(l.Debit)
		agg.credit = agg.credit.Add(l.Credit)
		byAccount[l.AccountCode] = agg
	}

	tb := &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, account := range accounts {
		agg := byAccount[account.Code]
		balance := accounting.SignedBalance(account.NormalBalance, agg.debit, agg.credit)

		if balance.IsZero() && agg.debit.IsZero() && agg.credit.IsZero() && !opts.IncludeZeroBalances {
			continue
		}

		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountCode:   account.Code,
			AccountName:   account.Name,
			AccountType:   account.AccountType,
			NormalBalance: account.NormalBalance,
			TotalDebit:    agg.debit,
			TotalCredit:   agg.credit,
			Balance:       balance,
			IsAbnormal:    accounting.IsAbnormal(balance),
		})

		// Column totals use the raw net so a balanced ledger always shows
		// equal sides regardless of which column an abnormal balance lands in.
		net := agg.debit.Sub(agg.credit)
		if net.IsNegative() {
			tb.TotalCredit = tb.TotalCredit.Add(net.Neg())
		} else {
			tb.TotalDebit = tb.TotalDebit.Add(net)
		}
	}

	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.IsBalanced = tb.Difference.IsZero()

	if !tb.IsBalanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("as_of", asOf.Format(time.RFC3339)),
			slog.String("difference", tb.Difference.String()))
	}

	s.LogDebug(ctx, "Trial balance computed",
		slog.String("as_of", asOf.Format(time.RFC3339)),
		slog.Int("rows", len(tb.Rows)))
	return tb, nil
}
