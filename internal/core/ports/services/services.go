package services

import (
	"context"
	"time"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	"github.com/arkastudio/studio_ledger/internal/dto"
)

// AccountSvc is the chart-of-accounts facade.
type AccountSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error)
	SetAccountActive(ctx context.Context, code string, active bool, actorID string) (*domain.Account, error)
	ToggleAccountActive(ctx context.Context, code string, actorID string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, code string, actorID string) error
	SeedDefaultChart(ctx context.Context, actorID string) (int, error)
}

// JournalSvc builds and maintains DRAFT journal entries.
type JournalSvc interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error)
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, actorID string) (*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, entryID string, actorID string) error
}

// PostingSvc is the only component permitted to transition entries out of
// DRAFT.
type PostingSvc interface {
	PostEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error)
}

// FiscalPeriodSvc manages period lifecycle and gates posting.
type FiscalPeriodSvc interface {
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error)
	GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	FindPeriodForDate(ctx context.Context, d time.Time) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
	ClosePeriod(ctx context.Context, periodID string, actorID string) (*domain.FiscalPeriod, error)
	ReopenPeriod(ctx context.Context, periodID string, actorID string) (*domain.FiscalPeriod, error)
}

// TrialBalanceSvc aggregates posted activity per account as of a date.
type TrialBalanceSvc interface {
	ComputeAsOf(ctx context.Context, asOf time.Time, opts dto.TrialBalanceOptions) (*domain.TrialBalance, error)
}

// StatementSvc derives financial statements from ledger data.
type StatementSvc interface {
	IncomeStatement(ctx context.Context, startDate, endDate time.Time) (*domain.IncomeStatement, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
	CashFlowStatement(ctx context.Context, startDate, endDate time.Time) (*domain.CashFlowStatement, error)
	ARAgingReport(ctx context.Context, asOf time.Time) (*domain.ARAgingReport, error)
}

// CashBankSvc maintains the monthly cash/bank balance chain.
type CashBankSvc interface {
	CreateBalance(ctx context.Context, req dto.CreateCashBankBalanceRequest, actorID string) (*domain.CashBankBalance, error)
	GetBalanceByID(ctx context.Context, balanceID string) (*domain.CashBankBalance, error)
	ListBalances(ctx context.Context) ([]domain.CashBankBalance, error)
	UpdateBalance(ctx context.Context, balanceID string, req dto.UpdateCashBankBalanceRequest, actorID string) (*domain.CashBankBalance, error)
	RecalculateBalance(ctx context.Context, balanceID string, actorID string) (*domain.CashBankBalance, error)
	DeleteBalance(ctx context.Context, balanceID string, actorID string) error
}

// DepreciationSvc runs the monthly depreciation batch.
type DepreciationSvc interface {
	ProcessMonthly(ctx context.Context, periodDate time.Time, autoPost bool, actorID string) (*domain.DepreciationRunResult, error)
}

// ECLSvc runs the monthly expected-credit-loss provisioning batch.
type ECLSvc interface {
	ProcessMonthly(ctx context.Context, calculationDate time.Time, autoPost bool, actorID string) (*domain.ECLRunResult, error)
}

// ServiceContainer bundles every service facade for handler wiring.
type ServiceContainer struct {
	Account      AccountSvc
	Journal      JournalSvc
	Posting      PostingSvc
	Period       FiscalPeriodSvc
	TrialBalance TrialBalanceSvc
	Statement    StatementSvc
	CashBank     CashBankSvc
	Depreciation DepreciationSvc
	ECL          ECLSvc
}
