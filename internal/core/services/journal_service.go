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
	"github.com/arkastudio/studio_ledger/internal/utils/accounting"
)

// JournalService validates and constructs DRAFT journal entries. Posting is
// the PostingService's job; this service never mutates posted state.
type JournalService struct {
	BaseService
	journalRepo portsrepo.JournalRepository
	accountRepo portsrepo.AccountRepository
	periodRepo  portsrepo.FiscalPeriodRepository
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountRepo portsrepo.AccountRepository, periodRepo portsrepo.FiscalPeriodRepository) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
	}
}

var _ portssvc.JournalSvc = (*JournalService)(nil)

// buildLines validates the line-item rules and converts request lines to
// domain lines, rounded to the monetary scale.
func buildLines(entryID string, reqLines []dto.CreateLineRequest) ([]domain.JournalLine, error) {
	if len(reqLines) < 2 {
		return nil, ErrInsufficientLines
	}

	lines := make([]domain.JournalLine, len(reqLines))
	for i, lr := range reqLines {
		if lr.AccountCode == "" {
			return nil, fmt.Errorf("%w (line %d)", ErrMissingAccount, i+1)
		}

		debit := accounting.RoundMoney(lr.Debit)
		credit := accounting.RoundMoney(lr.Credit)
		hasDebit := debit.IsPositive()
		hasCredit := credit.IsPositive()
		if debit.IsNegative() || credit.IsNegative() || hasDebit == hasCredit {
			return nil, fmt.Errorf("%w (line %d, account %s)", ErrInvalidLineSign, i+1, lr.AccountCode)
		}

		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountCode: lr.AccountCode,
			Debit:       debit,
			Credit:      credit,
			Description: lr.Description,
			TaxCode:     lr.TaxCode,
		}
	}
	return lines, nil
}

// validateBalance checks the double-entry invariant: at the configured
// precision the debit and credit sums must match exactly.
func validateBalance(lines []domain.JournalLine) error {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s", ErrEntryUnbalanced, debits.String(), credits.String())
	}
	return nil
}

// resolveAccounts verifies that every referenced account exists and is
// active.
func (s *JournalService) resolveAccounts(ctx context.Context, lines []domain.JournalLine) error {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountCode]; ok {
			continue
		}
		seen[l.AccountCode] = struct{}{}

		account, err := s.accountRepo.FindAccountByCode(ctx, l.AccountCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: account %s does not exist", ErrMissingAccount, l.AccountCode)
			}
			return fmt.Errorf("failed to resolve account %s: %w", l.AccountCode, err)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, l.AccountCode)
		}
	}
	return nil
}

// resolveOpenPeriod finds the monthly fiscal period covering the entry date
// and rejects closed periods.
func (s *JournalService) resolveOpenPeriod(ctx context.Context, entryDate time.Time) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, entryDate, domain.Monthly)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w (%s)", ErrNoFiscalPeriod, entryDate.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	if period.IsClosed() {
		return nil, fmt.Errorf("%w: period %s", ErrPeriodClosed, period.Code)
	}
	return period, nil
}

// nextEntryNumber issues a human-readable entry number for the year.
func (s *JournalService) nextEntryNumber(ctx context.Context, entryDate time.Time) (string, error) {
	seq, err := s.journalRepo.NextEntrySequence(ctx, entryDate.Year())
	if err != nil {
		return "", fmt.Errorf("failed to allocate entry number: %w", err)
	}
	return fmt.Sprintf("JE-%d-%05d", entryDate.Year(), seq), nil
}

// CreateEntry validates the request and persists a new DRAFT entry. No
// mutation happens when any validation rule fails.
func (s *JournalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	entryID := uuid.NewString()

	lines, err := buildLines(entryID, req.Lines)
	if err != nil {
		return nil, err
	}
	if err := validateBalance(lines); err != nil {
		return nil, err
	}
	if err := s.resolveAccounts(ctx, lines); err != nil {
		return nil, err
	}
	period, err := s.resolveOpenPeriod(ctx, req.EntryDate)
	if err != nil {
		return nil, err
	}

	number, err := s.nextEntryNumber(ctx, req.EntryDate)
	if err != nil {
		return nil, err
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.SourceManual
	}

	entry := domain.JournalEntry{
		EntryID:        entryID,
		EntryNumber:    number,
		EntryDate:      req.EntryDate,
		Description:    req.Description,
		SourceType:     sourceType,
		SourceID:       req.SourceID,
		DocumentRef:    req.DocumentRef,
		Status:         domain.Draft,
		FiscalPeriodID: period.PeriodID,
		Lines:          lines,
		AuditFields:    domain.NewAuditFields(actorID, time.Now().UTC()),
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_number", number))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.Int("lines", len(entry.Lines)))
	return &entry, nil
}

// GetEntryByID retrieves an entry with its line items.
func (s *JournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries returns entries matching the filter.
func (s *JournalService) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries")
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry patches a DRAFT entry. Posted entries are immutable.
func (s *JournalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status == domain.Posted {
		return nil, fmt.Errorf("%w: entry %s", ErrImmutableEntry, entry.EntryNumber)
	}

	if req.EntryDate != nil {
		period, err := s.resolveOpenPeriod(ctx, *req.EntryDate)
		if err != nil {
			return nil, err
		}
		entry.EntryDate = *req.EntryDate
		entry.FiscalPeriodID = period.PeriodID
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.DocumentRef != nil {
		entry.DocumentRef = *req.DocumentRef
	}
	if req.Lines != nil {
		lines, err := buildLines(entry.EntryID, *req.Lines)
		if err != nil {
			return nil, err
		}
		if err := validateBalance(lines); err != nil {
			return nil, err
		}
		if err := s.resolveAccounts(ctx, lines); err != nil {
			return nil, err
		}
		entry.Lines = lines
	}

	entry.Touch(actorID, time.Now().UTC())
	if err := s.journalRepo.UpdateEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to update entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update entry %s: %w", entryID, err)
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

// DeleteEntry removes a DRAFT entry and its line items. Posted entries are
// immutable.
func (s *JournalService) DeleteEntry(ctx context.Context, entryID string, actorID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status == domain.Posted {
		return fmt.Errorf("%w: entry %s", ErrImmutableEntry, entry.EntryNumber)
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID), slog.String("actor_id", actorID))
	return nil
}
