package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	"github.com/arkastudio/studio_ledger/internal/repositories/memory"
)

func makeEntry(id, number string, date time.Time, status domain.EntryStatus) domain.JournalEntry {
	amount := decimal.RequireFromString("100")
	return domain.JournalEntry{
		EntryID:     id,
		EntryNumber: number,
		EntryDate:   date,
		Description: "test entry",
		SourceType:  domain.SourceManual,
		Status:      status,
		Lines: []domain.JournalLine{
			{LineID: id + "-1", EntryID: id, AccountCode: "1-110", Debit: amount},
			{LineID: id + "-2", EntryID: id, AccountCode: "4-110", Credit: amount},
		},
	}
}

func TestJournalRepository_SaveAndFind(t *testing.T) {
	repos := memory.NewRepositoryProvider()
	ctx := context.Background()
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	entry := makeEntry("e1", "JE-2026-00001", date, domain.Draft)
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, entry))

	err := repos.JournalRepo.SaveEntry(ctx, entry)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	found, err := repos.JournalRepo.FindEntryByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "JE-2026-00001", found.EntryNumber)
	assert.Len(t, found.Lines, 2)

	// The returned entry is a copy; mutating it must not leak into the store.
	found.Lines[0].AccountCode = "tampered"
	again, err := repos.JournalRepo.FindEntryByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "1-110", again.Lines[0].AccountCode)

	_, err = repos.JournalRepo.FindEntryByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestJournalRepository_ListEntriesOrderingAndFilters(t *testing.T) {
	repos := memory.NewRepositoryProvider()
	ctx := context.Background()
	aug := func(day int) time.Time { return time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, makeEntry("e2", "JE-2026-00002", aug(20), domain.Posted)))
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, makeEntry("e1", "JE-2026-00001", aug(5), domain.Draft)))

	all, err := repos.JournalRepo.ListEntries(ctx, portsrepo.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "e1", all[0].EntryID) // earliest entry date first

	posted, err := repos.JournalRepo.ListEntries(ctx, portsrepo.EntryFilter{Status: domain.Posted})
	require.NoError(t, err)
	require.Len(t, posted, 1)
	assert.Equal(t, "e2", posted[0].EntryID)

	from := aug(10)
	later, err := repos.JournalRepo.ListEntries(ctx, portsrepo.EntryFilter{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, "e2", later[0].EntryID)
}

func TestJournalRepository_ListPostedLines(t *testing.T) {
	repos := memory.NewRepositoryProvider()
	ctx := context.Background()
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, makeEntry("posted", "JE-2026-00001", date, domain.Posted)))
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, makeEntry("draft", "JE-2026-00002", date, domain.Draft)))

	lines, err := repos.JournalRepo.ListPostedLines(ctx, portsrepo.LineFilter{})
	require.NoError(t, err)
	assert.Len(t, lines, 2) // the draft contributes nothing

	cashOnly, err := repos.JournalRepo.ListPostedLines(ctx, portsrepo.LineFilter{AccountCodePrefix: "1-1"})
	require.NoError(t, err)
	require.Len(t, cashOnly, 1)
	assert.Equal(t, "1-110", cashOnly[0].AccountCode)

	referenced, err := repos.JournalRepo.HasPostedLinesForAccount(ctx, "4-110")
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = repos.JournalRepo.HasPostedLinesForAccount(ctx, "6-110")
	require.NoError(t, err)
	assert.False(t, referenced)
}

func TestJournalRepository_FindReversalOf(t *testing.T) {
	repos := memory.NewRepositoryProvider()
	ctx := context.Background()
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	original := makeEntry("orig", "JE-2026-00001", date, domain.Posted)
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, original))

	_, err := repos.JournalRepo.FindReversalOf(ctx, "orig")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	reversal := makeEntry("rev", "JE-2026-00002", date, domain.Draft)
	reversal.IsReversing = true
	origID := "orig"
	reversal.ReversedEntryID = &origID
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, reversal))

	// A draft reversal does not count; only a posted one does.
	_, err = repos.JournalRepo.FindReversalOf(ctx, "orig")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	reversal.Status = domain.Posted
	require.NoError(t, repos.JournalRepo.UpdateEntry(ctx, reversal))

	found, err := repos.JournalRepo.FindReversalOf(ctx, "orig")
	require.NoError(t, err)
	assert.Equal(t, "rev", found.EntryID)
}

func TestJournalRepository_PreservesLineOrder(t *testing.T) {
	repos := memory.NewRepositoryProvider()
	ctx := context.Background()
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	amount := decimal.RequireFromString("50")
	entry := domain.JournalEntry{
		EntryID:     "multi",
		EntryNumber: "JE-2026-00001",
		EntryDate:   date,
		Description: "multi-line entry",
		SourceType:  domain.SourceManual,
		Status:      domain.Draft,
		// Deliberately not in account-code order.
		Lines: []domain.JournalLine{
			{LineID: "m-1", EntryID: "multi", AccountCode: "6-110", Debit: amount},
			{LineID: "m-2", EntryID: "multi", AccountCode: "1-110", Debit: amount},
			{LineID: "m-3", EntryID: "multi", AccountCode: "4-110", Credit: amount},
			{LineID: "m-4", EntryID: "multi", AccountCode: "2-110", Credit: amount},
		},
	}
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, entry))

	found, err := repos.JournalRepo.FindEntryByID(ctx, "multi")
	require.NoError(t, err)
	require.Len(t, found.Lines, 4)
	for i, code := range []string{"6-110", "1-110", "4-110", "2-110"} {
		assert.Equal(t, code, found.Lines[i].AccountCode)
	}
}

func TestJournalRepository_NextEntrySequence(t *testing.T) {
	repos := memory.NewRepositoryProvider()
	ctx := context.Background()

	first, err := repos.JournalRepo.NextEntrySequence(ctx, 2026)
	require.NoError(t, err)
	second, err := repos.JournalRepo.NextEntrySequence(ctx, 2026)
	require.NoError(t, err)
	otherYear, err := repos.JournalRepo.NextEntrySequence(ctx, 2027)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 1, otherYear) // sequences are per year
}
