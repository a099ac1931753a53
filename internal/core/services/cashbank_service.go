package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/utils/locking"
)

// CashBankService maintains the monthly cash/bank opening->closing balance
// chain. Movement totals always derive from posted line items on the
// cash/bank account subtree; only the opening balance and notes are manual.
//
// Recalculating a month pulls its opening balance from the previous month's
// closing balance, so after correcting an earlier period the caller must
// recalculate each later period in chronological order. Propagation is
// deliberately not automatic.
type CashBankService struct {
	BaseService
	cashBankRepo portsrepo.CashBankRepository
	journalRepo  portsrepo.JournalRepository
	periodRepo   portsrepo.FiscalPeriodRepository
	locks        *locking.KeyedMutex
	cashPrefix   string
}

// NewCashBankService creates a new CashBankService. The keyed mutex must be
// the same instance the PostingService uses so recalculation cannot
// interleave with a posting that touches the same period's cash accounts.
func NewCashBankService(cashBankRepo portsrepo.CashBankRepository, journalRepo portsrepo.JournalRepository, periodRepo portsrepo.FiscalPeriodRepository, locks *locking.KeyedMutex, cashPrefix string) *CashBankService {
	return &CashBankService{
		cashBankRepo: cashBankRepo,
		journalRepo:  journalRepo,
		periodRepo:   periodRepo,
		locks:        locks,
		cashPrefix:   cashPrefix,
	}
}

var _ portssvc.CashBankSvc = (*CashBankService)(nil)

// monthWindow returns the calendar-month bounds [first day 00:00:00, last
// day 23:59:59.999].
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

// lockKey serializes a month's recomputation against posting. When a fiscal
// period covers the month the period key is used, so posting and
// recalculation contend on the same lock; otherwise a month-scoped key.
func (s *CashBankService) lockKey(ctx context.Context, year, month int) string {
	start, _ := monthWindow(year, month)
	if period, err := s.periodRepo.FindPeriodForDate(ctx, start, domain.Monthly); err == nil {
		return PeriodLockKey(period.PeriodID)
	}
	return fmt.Sprintf("cashbank:%04d-%02d", year, month)
}

// computeMovements sums posted cash/bank debits (inflow) and credits
// (outflow) inside the month window.
func (s *CashBankService) computeMovements(ctx context.Context, year, month int) (inflow, outflow decimal.Decimal, err error) {
	start, end := monthWindow(year, month)
	lines, err := s.journalRepo.ListPostedLines(ctx, portsrepo.LineFilter{
		DateFrom:          &start,
		DateTo:            &end,
		AccountCodePrefix: s.cashPrefix,
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to load cash lines for %04d-%02d: %w", year, month, err)
	}

	inflow, outflow = decimal.Zero, decimal.Zero
	for _, l := range lines {
		inflow = inflow.Add(l.Debit)
		outflow = outflow.Add(l.Credit)
	}
	return inflow, outflow, nil
}

// CreateBalance opens the balance record for (year, month). Creation for a
// month that already has one is rejected.
func (s *CashBankService) CreateBalance(ctx context.Context, req dto.CreateCashBankBalanceRequest, actorID string) (*domain.CashBankBalance, error) {
	key := s.lockKey(ctx, req.Year, req.Month)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if _, err := s.cashBankRepo.FindBalanceByMonth(ctx, req.Year, req.Month); err == nil {
		return nil, fmt.Errorf("%w: %04d-%02d", ErrDuplicatePeriodBalance, req.Year, req.Month)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing balance: %w", err)
	}

	inflow, outflow, err := s.computeMovements(ctx, req.Year, req.Month)
	if err != nil {
		return nil, err
	}

	balance := domain.CashBankBalance{
		BalanceID:      uuid.NewString(),
		Year:           req.Year,
		Month:          req.Month,
		OpeningBalance: req.OpeningBalance,
		TotalInflow:    inflow,
		TotalOutflow:   outflow,
		Notes:          req.Notes,
		AuditFields:    domain.NewAuditFields(actorID, time.Now().UTC()),
	}
	balance.Recompute()

	if err := s.cashBankRepo.SaveBalance(ctx, balance); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %04d-%02d", ErrDuplicatePeriodBalance, req.Year, req.Month)
		}
		s.LogError(ctx, err, "Failed to save cash/bank balance", slog.Int("year", req.Year), slog.Int("month", req.Month))
		return nil, fmt.Errorf("failed to save balance: %w", err)
	}

	s.LogInfo(ctx, "Cash/bank balance created",
		slog.Int("year", balance.Year),
		slog.Int("month", balance.Month),
		slog.String("closing", balance.ClosingBalance.String()))
	return &balance, nil
}

// GetBalanceByID retrieves one balance record.
func (s *CashBankService) GetBalanceByID(ctx context.Context, balanceID string) (*domain.CashBankBalance, error) {
	balance, err := s.cashBankRepo.FindBalanceByID(ctx, balanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find balance %s: %w", balanceID, err)
	}
	return balance, nil
}

// ListBalances returns all balance records in chronological order.
func (s *CashBankService) ListBalances(ctx context.Context) ([]domain.CashBankBalance, error) {
	balances, err := s.cashBankRepo.ListBalances(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash/bank balances")
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return balances, nil
}

// UpdateBalance patches the manual fields (opening balance, notes) and
// recomputes the derived movement fields from the ledger.
func (s *CashBankService) UpdateBalance(ctx context.Context, balanceID string, req dto.UpdateCashBankBalanceRequest, actorID string) (*domain.CashBankBalance, error) {
	balance, err := s.cashBankRepo.FindBalanceByID(ctx, balanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find balance %s: %w", balanceID, err)
	}

	key := s.lockKey(ctx, balance.Year, balance.Month)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if req.OpeningBalance != nil {
		balance.OpeningBalance = *req.OpeningBalance
	}
	if req.Notes != nil {
		balance.Notes = *req.Notes
	}

	return s.recompute(ctx, balance, actorID)
}

// RecalculateBalance re-derives the opening balance from the previous
// month's closing balance (zero when no predecessor exists) and recomputes
// the movements. Later months are not touched; the chain heals forward only
// through explicit chronological recalculation by the caller.
func (s *CashBankService) RecalculateBalance(ctx context.Context, balanceID string, actorID string) (*domain.CashBankBalance, error) {
	balance, err := s.cashBankRepo.FindBalanceByID(ctx, balanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find balance %s: %w", balanceID, err)
	}

	key := s.lockKey(ctx, balance.Year, balance.Month)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	prevYear, prevMonth := balance.PreviousMonth()
	previous, err := s.cashBankRepo.FindBalanceByMonth(ctx, prevYear, prevMonth)
	switch {
	case err == nil:
		balance.OpeningBalance = previous.ClosingBalance
	case errors.Is(err, apperrors.ErrNotFound):
		balance.OpeningBalance = decimal.Zero
	default:
		return nil, fmt.Errorf("failed to find previous balance %04d-%02d: %w", prevYear, prevMonth, err)
	}

	return s.recompute(ctx, balance, actorID)
}

func (s *CashBankService) recompute(ctx context.Context, balance *domain.CashBankBalance, actorID string) (*domain.CashBankBalance, error) {
	inflow, outflow, err := s.computeMovements(ctx, balance.Year, balance.Month)
	if err != nil {
		return nil, err
	}
	balance.TotalInflow = inflow
	balance.TotalOutflow = outflow
	balance.Recompute()
	balance.Touch(actorID, time.Now().UTC())

	if err := s.cashBankRepo.UpdateBalance(ctx, *balance); err != nil {
		s.LogError(ctx, err, "Failed to update cash/bank balance", slog.String("balance_id", balance.BalanceID))
		return nil, fmt.Errorf("failed to update balance %s: %w", balance.BalanceID, err)
	}

	s.LogInfo(ctx, "Cash/bank balance recomputed",
		slog.Int("year", balance.Year),
		slog.Int("month", balance.Month),
		slog.String("opening", balance.OpeningBalance.String()),
		slog.String("closing", balance.ClosingBalance.String()))
	return balance, nil
}

// DeleteBalance removes a balance record.
func (s *CashBankService) DeleteBalance(ctx context.Context, balanceID string, actorID string) error {
	if _, err := s.cashBankRepo.FindBalanceByID(ctx, balanceID); err != nil {
		return fmt.Errorf("failed to find balance %s: %w", balanceID, err)
	}
	if err := s.cashBankRepo.DeleteBalance(ctx, balanceID); err != nil {
		s.LogError(ctx, err, "Failed to delete cash/bank balance", slog.String("balance_id", balanceID))
		return fmt.Errorf("failed to delete balance %s: %w", balanceID, err)
	}
	s.LogInfo(ctx, "Cash/bank balance deleted", slog.String("balance_id", balanceID), slog.String("actor_id", actorID))
	return nil
}
