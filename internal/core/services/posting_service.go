package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/utils/locking"
)

// PostingService transitions entries draft->posted and posted->reversed. It
// is the only component permitted to mutate posted state, and it serializes
// all such transitions per fiscal period.
type PostingService struct {
	BaseService
	journalRepo portsrepo.JournalRepository
	periodRepo  portsrepo.FiscalPeriodRepository
	locks       *locking.KeyedMutex
}

// NewPostingService creates a new PostingService. The keyed mutex is shared
// with any other writer that must serialize against posting (the cash/bank
// recalculation in particular).
func NewPostingService(journalRepo portsrepo.JournalRepository, periodRepo portsrepo.FiscalPeriodRepository, locks *locking.KeyedMutex) *PostingService {
	return &PostingService{
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		locks:       locks,
	}
}

var _ portssvc.PostingSvc = (*PostingService)(nil)

// PeriodLockKey names the serialization key for a fiscal period. Every
// writer that must not interleave with posting locks the same key.
func PeriodLockKey(periodID string) string {
	return "period:" + periodID
}

// PostEntry finalizes a DRAFT entry into the permanent ledger record. The
// balance invariant is re-validated against stored data and the fiscal
// period re-checked, since both may have changed after draft creation.
func (s *PostingService) PostEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status == domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is already posted", ErrImmutableEntry, entry.EntryNumber)
	}

	s.locks.Lock(PeriodLockKey(entry.FiscalPeriodID))
	defer s.locks.Unlock(PeriodLockKey(entry.FiscalPeriodID))

	// Reload under the lock so a concurrent close or edit cannot slip in
	// between validation and the status flip.
	entry, err = s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status == domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is already posted", ErrImmutableEntry, entry.EntryNumber)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, entry.FiscalPeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", entry.FiscalPeriodID, err)
	}
	if period.IsClosed() {
		return nil, fmt.Errorf("%w: period %s", ErrPeriodClosed, period.Code)
	}

	// Posting tolerates no rounding drift at all.
	if !entry.IsBalanced() {
		return nil, fmt.Errorf("%w: entry %s (debit %s, credit %s)",
			ErrEntryUnbalanced, entry.EntryNumber, entry.TotalDebit().String(), entry.TotalCredit().String())
	}

	now := time.Now().UTC()
	entry.Status = domain.Posted
	entry.PostingDate = &now
	entry.PostedBy = actorID
	entry.Touch(actorID, now)

	if err := s.journalRepo.UpdateEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to persist posted entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("posted_by", actorID))
	return entry, nil
}

// ReverseEntry creates and posts a mirrored entry that cancels a posted
// entry's effect. The original is never mutated; the reversal carries the
// linkage.
func (s *PostingService) ReverseEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	// Serialize reversals of the same entry so two concurrent calls cannot
	// both pass the already-reversed check.
	s.locks.Lock("reverse:" + entryID)
	defer s.locks.Unlock("reverse:" + entryID)

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s", ErrNotPosted, original.EntryNumber)
	}

	if existing, err := s.journalRepo.FindReversalOf(ctx, entryID); err == nil {
		return nil, fmt.Errorf("%w: entry %s was reversed by %s", ErrAlreadyReversed, original.EntryNumber, existing.EntryNumber)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing reversal: %w", err)
	}

	now := time.Now().UTC()
	period, err := s.periodRepo.FindPeriodForDate(ctx, now, domain.Monthly)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w (%s)", ErrNoFiscalPeriod, now.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	if period.IsClosed() {
		return nil, fmt.Errorf("%w: period %s", ErrPeriodClosed, period.Code)
	}

	seq, err := s.journalRepo.NextEntrySequence(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate entry number: %w", err)
	}

	reversalID := uuid.NewString()
	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		EntryNumber:     fmt.Sprintf("JE-%d-%05d", now.Year(), seq),
		EntryDate:       now,
		Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, original.Description),
		SourceType:      original.SourceType,
		SourceID:        original.SourceID,
		DocumentRef:     original.DocumentRef,
		Status:          domain.Draft,
		FiscalPeriodID:  period.PeriodID,
		IsReversing:     true,
		ReversedEntryID: &original.EntryID,
		Lines:           make([]domain.JournalLine, len(original.Lines)),
		AuditFields:     domain.NewAuditFields(actorID, now),
	}

	for i, line := range original.Lines {
		reversal.Lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			AccountCode: line.AccountCode,
			Debit:       line.Credit, // sides swapped
			Credit:      line.Debit,
			Description: line.Description,
			TaxCode:     line.TaxCode,
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, reversal); err != nil {
		s.LogError(ctx, err, "Failed to save reversal entry", slog.String("original_entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}

	// The reversal goes through the same posting rules as any other entry.
	// A draft left behind after a failed post would block every retry, so it
	// is discarded with the attempt.
	posted, err := s.PostEntry(ctx, reversalID, actorID)
	if err != nil {
		if delErr := s.journalRepo.DeleteEntry(ctx, reversalID); delErr != nil {
			s.LogError(ctx, delErr, "Failed to discard unposted reversal draft", slog.String("reversal_entry_id", reversalID))
		}
		return nil, fmt.Errorf("failed to post reversal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversal_entry_id", posted.EntryID))
	return posted, nil
}
