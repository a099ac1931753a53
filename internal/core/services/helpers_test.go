package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/core/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/platform/config"
	"github.com/arkastudio/studio_ledger/internal/repositories/memory"
)

const testActor = "test-user"

// testEnv wires the full service container over the in-memory store with a
// seeded chart of accounts.
type testEnv struct {
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
	cfg   *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.DefaultTestConfig()
	repos := memory.NewRepositoryProvider()
	svc := services.NewServiceContainer(cfg, repos)

	_, err := svc.Account.SeedDefaultChart(context.Background(), testActor)
	require.NoError(t, err)

	return &testEnv{repos: repos, svc: svc, cfg: cfg}
}

// openMonth creates an OPEN monthly fiscal period covering (year, month).
func (e *testEnv) openMonth(t *testing.T, year int, month time.Month) *domain.FiscalPeriod {
	t.Helper()
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	period, err := e.svc.Period.CreatePeriod(context.Background(), dto.CreatePeriodRequest{
		Code:       fmt.Sprintf("%04d-%02d", year, month),
		Name:       start.Format("January 2006"),
		PeriodType: domain.Monthly,
		StartDate:  start,
		EndDate:    end,
	}, testActor)
	require.NoError(t, err)
	return period
}

// openCurrentMonth opens the period containing time.Now, which reversal and
// other now-dated operations resolve against.
func (e *testEnv) openCurrentMonth(t *testing.T) *domain.FiscalPeriod {
	t.Helper()
	now := time.Now().UTC()
	return e.openMonth(t, now.Year(), now.Month())
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// createEntry builds a DRAFT two-or-more-line entry dated d.
func (e *testEnv) createEntry(t *testing.T, d time.Time, desc string, lines ...dto.CreateLineRequest) *domain.JournalEntry {
	t.Helper()
	entry, err := e.svc.Journal.CreateEntry(context.Background(), dto.CreateEntryRequest{
		EntryDate:   d,
		Description: desc,
		Lines:       lines,
	}, testActor)
	require.NoError(t, err)
	return entry
}

// postEntry creates and immediately posts an entry dated d.
func (e *testEnv) postEntry(t *testing.T, d time.Time, desc string, lines ...dto.CreateLineRequest) *domain.JournalEntry {
	t.Helper()
	entry := e.createEntry(t, d, desc, lines...)
	posted, err := e.svc.Posting.PostEntry(context.Background(), entry.EntryID, testActor)
	require.NoError(t, err)
	return posted
}

func debit(account, amount string) dto.CreateLineRequest {
	return dto.CreateLineRequest{AccountCode: account, Debit: money(amount)}
}

func credit(account, amount string) dto.CreateLineRequest {
	return dto.CreateLineRequest{AccountCode: account, Credit: money(amount)}
}
