package repositories

import (
	"context"
	"time"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
)

// AccountFilter narrows ListAccounts. Zero values mean "no constraint".
type AccountFilter struct {
	AccountType domain.AccountType
	SubType     string
	ActiveOnly  bool
	CodePrefix  string
}

// AccountRepository defines the persistence operations for the chart of
// accounts. Implementations return results in stable code order.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error // apperrors.ErrDuplicate on existing code
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeleteAccount(ctx context.Context, code string) error
}

// EntryFilter narrows ListEntries.
type EntryFilter struct {
	DateFrom          *time.Time
	DateTo            *time.Time
	AccountCodePrefix string
	Status            domain.EntryStatus
	FiscalPeriodID    string
	SourceType        domain.SourceType
}

// LineFilter narrows ListPostedLines. Dates bound the owning entry's entry
// date, inclusive.
type LineFilter struct {
	DateFrom          *time.Time
	DateTo            *time.Time
	AccountCodePrefix string
	AccountCode       string
}

// JournalRepository defines persistence for journal entries and their line
// items. Saving an entry persists its lines atomically; line items have no
// independent lifecycle.
type JournalRepository interface {
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]domain.JournalEntry, error)
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error
	DeleteEntry(ctx context.Context, entryID string) error

	// FindReversalOf returns the posted entry whose ReversedEntryID points
	// at entryID, or apperrors.ErrNotFound when none exists.
	FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListPostedLines is the aggregation feed for the calculators: posted
	// entries only, flattened to line level.
	ListPostedLines(ctx context.Context, filter LineFilter) ([]domain.PostedLine, error)

	// HasPostedLinesForAccount reports whether any posted line references
	// the account code; used to protect referenced accounts from deletion.
	HasPostedLinesForAccount(ctx context.Context, accountCode string) (bool, error)

	// NextEntrySequence issues the next entry number for the given year.
	NextEntrySequence(ctx context.Context, year int) (int, error)
}

// FiscalPeriodRepository defines persistence for fiscal periods.
type FiscalPeriodRepository interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error // ErrDuplicate on code
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	FindPeriodByCode(ctx context.Context, code string) (*domain.FiscalPeriod, error)
	// FindPeriodForDate returns the period of the given type containing d,
	// or apperrors.ErrNotFound.
	FindPeriodForDate(ctx context.Context, d time.Time, t domain.PeriodType) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
	UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error
}

// CashBankRepository defines persistence for the monthly cash/bank balance
// chain. (Year, Month) is unique.
type CashBankRepository interface {
	SaveBalance(ctx context.Context, balance domain.CashBankBalance) error // ErrDuplicate on (year, month)
	FindBalanceByID(ctx context.Context, balanceID string) (*domain.CashBankBalance, error)
	FindBalanceByMonth(ctx context.Context, year, month int) (*domain.CashBankBalance, error)
	ListBalances(ctx context.Context) ([]domain.CashBankBalance, error)
	UpdateBalance(ctx context.Context, balance domain.CashBankBalance) error
	DeleteBalance(ctx context.Context, balanceID string) error
}

// AssetRepository exposes the suite's fixed-asset register to the
// depreciation processor.
type AssetRepository interface {
	SaveAsset(ctx context.Context, asset domain.FixedAsset) error
	FindAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error)
	ListAssets(ctx context.Context, activeOnly bool) ([]domain.FixedAsset, error)
	UpdateAsset(ctx context.Context, asset domain.FixedAsset) error
}

// InvoiceRepository exposes outstanding receivables to the ECL processor
// and the AR aging report.
type InvoiceRepository interface {
	SaveInvoice(ctx context.Context, invoice domain.ReceivableInvoice) error
	// ListOutstanding returns unpaid, not-written-off invoices issued on or
	// before asOf.
	ListOutstanding(ctx context.Context, asOf time.Time) ([]domain.ReceivableInvoice, error)
	UpdateInvoice(ctx context.Context, invoice domain.ReceivableInvoice) error
}

// RepositoryProvider bundles every repository an adapter implements.
type RepositoryProvider struct {
	AccountRepo  AccountRepository
	JournalRepo  JournalRepository
	PeriodRepo   FiscalPeriodRepository
	CashBankRepo CashBankRepository
	AssetRepo    AssetRepository
	InvoiceRepo  InvoiceRepository
}
