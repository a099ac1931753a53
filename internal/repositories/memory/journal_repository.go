package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

// JournalRepository is the in-memory journal-entry store.
type JournalRepository struct {
	store *Store
}

var _ portsrepo.JournalRepository = (*JournalRepository)(nil)

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	lines := make([]domain.JournalLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	if e.PostingDate != nil {
		d := *e.PostingDate
		e.PostingDate = &d
	}
	if e.ReversedEntryID != nil {
		id := *e.ReversedEntryID
		e.ReversedEntryID = &id
	}
	return e
}

func (r *JournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.entries[entry.EntryID]; exists {
		return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	r.store.entries[entry.EntryID] = cloneEntry(entry)
	return nil
}

func (r *JournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entry, ok := r.store.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	entry = cloneEntry(entry)
	return &entry, nil
}

func matchesEntryFilter(e domain.JournalEntry, filter portsrepo.EntryFilter) bool {
	if filter.DateFrom != nil && e.EntryDate.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && e.EntryDate.After(*filter.DateTo) {
		return false
	}
	if filter.Status != "" && e.Status != filter.Status {
		return false
	}
	if filter.FiscalPeriodID != "" && e.FiscalPeriodID != filter.FiscalPeriodID {
		return false
	}
	if filter.SourceType != "" && e.SourceType != filter.SourceType {
		return false
	}
	if filter.AccountCodePrefix != "" {
		found := false
		for _, l := range e.Lines {
			if hasPrefix(l.AccountCode, filter.AccountCodePrefix) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *JournalRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]domain.JournalEntry, 0)
	for _, e := range r.store.entries {
		if matchesEntryFilter(e, filter) {
			entries = append(entries, cloneEntry(e))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.Before(entries[j].EntryDate)
		}
		return entries[i].EntryNumber < entries[j].EntryNumber
	})
	return entries, nil
}

func (r *JournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.entries[entry.EntryID]; !ok {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	r.store.entries[entry.EntryID] = cloneEntry(entry)
	return nil
}

func (r *JournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.entries[entryID]; !ok {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	delete(r.store.entries, entryID)
	return nil
}

func (r *JournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	// Only a POSTED reversal counts; an abandoned draft must not block a
	// fresh reversal attempt.
	for _, e := range r.store.entries {
		if e.Status == domain.Posted && e.ReversedEntryID != nil && *e.ReversedEntryID == entryID {
			entry := cloneEntry(e)
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("%w: no reversal of entry %s", apperrors.ErrNotFound, entryID)
}

func (r *JournalRepository) ListPostedLines(ctx context.Context, filter portsrepo.LineFilter) ([]domain.PostedLine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	lines := make([]domain.PostedLine, 0)
	for _, e := range r.store.entries {
		if e.Status != domain.Posted {
			continue
		}
		if filter.DateFrom != nil && e.EntryDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.EntryDate.After(*filter.DateTo) {
			continue
		}
		for _, l := range e.Lines {
			if filter.AccountCode != "" && l.AccountCode != filter.AccountCode {
				continue
			}
			if !hasPrefix(l.AccountCode, filter.AccountCodePrefix) {
				continue
			}
			lines = append(lines, domain.PostedLine{
				EntryID:     e.EntryID,
				EntryDate:   e.EntryDate,
				SourceType:  e.SourceType,
				AccountCode: l.AccountCode,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Description: l.Description,
			})
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].EntryDate.Equal(lines[j].EntryDate) {
			return lines[i].EntryDate.Before(lines[j].EntryDate)
		}
		if lines[i].EntryID != lines[j].EntryID {
			return lines[i].EntryID < lines[j].EntryID
		}
		return lines[i].AccountCode < lines[j].AccountCode
	})
	return lines, nil
}

func (r *JournalRepository) HasPostedLinesForAccount(ctx context.Context, accountCode string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.entries {
		if e.Status != domain.Posted {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountCode == accountCode {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *JournalRepository) NextEntrySequence(ctx context.Context, year int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.sequences[year]++
	return r.store.sequences[year], nil
}
