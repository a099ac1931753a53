package pgsql

import (
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool),
		PeriodRepo:   newPgxFiscalPeriodRepository(dbPool),
		CashBankRepo: newPgxCashBankRepository(dbPool),
		AssetRepo:    newPgxAssetRepository(dbPool),
		InvoiceRepo:  newPgxInvoiceRepository(dbPool),
	}
}
