// Package memory provides an embedded implementation of the ledger store.
// It backs the service tests and the server's no-database mode; semantics
// (duplicate detection, not-found errors, stable ordering) mirror the pgsql
// adapter.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

// Store is the shared state behind every memory repository. A single
// RWMutex guards all maps; the ledger's write volume does not warrant
// anything finer.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account      // by code
	entries   map[string]domain.JournalEntry // by entry ID
	periods   map[string]domain.FiscalPeriod // by period ID
	balances  map[string]domain.CashBankBalance
	assets    map[string]domain.FixedAsset
	invoices  map[string]domain.ReceivableInvoice
	sequences map[int]int // entry number sequence per year
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		entries:   make(map[string]domain.JournalEntry),
		periods:   make(map[string]domain.FiscalPeriod),
		balances:  make(map[string]domain.CashBankBalance),
		assets:    make(map[string]domain.FixedAsset),
		invoices:  make(map[string]domain.ReceivableInvoice),
		sequences: make(map[int]int),
	}
}

// NewRepositoryProvider returns a provider whose repositories all share one
// store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	store := NewStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:  &AccountRepository{store: store},
		JournalRepo:  &JournalRepository{store: store},
		PeriodRepo:   &FiscalPeriodRepository{store: store},
		CashBankRepo: &CashBankRepository{store: store},
		AssetRepo:    &AssetRepository{store: store},
		InvoiceRepo:  &InvoiceRepository{store: store},
	}
}

func hasPrefix(code, prefix string) bool {
	return prefix == "" || strings.HasPrefix(code, prefix)
}

func sortedAccountCodes(accounts map[string]domain.Account) []string {
	codes := make([]string, 0, len(accounts))
	for code := range accounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
