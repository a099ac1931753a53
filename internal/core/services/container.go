package services

import (
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/platform/config"
	"github.com/arkastudio/studio_ledger/internal/utils/locking"
)

// NewServiceContainer wires every ledger service over the given repository
// provider. One keyed mutex is shared by every writer that serializes per
// fiscal period.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	locks := locking.NewKeyedMutex()

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo)
	container.Period = NewFiscalPeriodService(repos.PeriodRepo, locks)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.PeriodRepo)
	container.Posting = NewPostingService(repos.JournalRepo, repos.PeriodRepo, locks)
	container.TrialBalance = NewTrialBalanceService(repos.AccountRepo, repos.JournalRepo)
	container.Statement = NewStatementService(repos.AccountRepo, repos.JournalRepo, repos.InvoiceRepo, cfg.CashAccountPrefix, cfg.BalanceEpsilon)
	container.CashBank = NewCashBankService(repos.CashBankRepo, repos.JournalRepo, repos.PeriodRepo, locks, cfg.CashAccountPrefix)
	container.Depreciation = NewDepreciationService(repos.AssetRepo, container.Journal, container.Posting, DepreciationAccounts{
		ExpenseAccount:     cfg.DepreciationExpenseAccount,
		AccumulatedAccount: cfg.AccumulatedDepreciationAccount,
	})
	container.ECL = NewECLService(repos.InvoiceRepo, container.Journal, container.Posting, ECLAccounts{
		ExpenseAccount:   cfg.ECLExpenseAccount,
		AllowanceAccount: cfg.ECLAllowanceAccount,
	}, cfg.ECLRates)

	return container
}
