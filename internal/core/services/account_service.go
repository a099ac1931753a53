package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
)

// AccountService manages the chart of accounts.
type AccountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	journalRepo portsrepo.JournalRepository
}

// NewAccountService creates a new AccountService. The journal repository is
// consulted to protect accounts referenced by posted line items.
func NewAccountService(accountRepo portsrepo.AccountRepository, journalRepo portsrepo.JournalRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

var _ portssvc.AccountSvc = (*AccountService)(nil)

// CreateAccount registers a new account. The account code must be unique
// and the normal balance, when supplied, must match the side implied by the
// account type unless the sub-type marks a contra account.
func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	if !domain.ValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	account := domain.Account{
		Code:             req.Code,
		Name:             req.Name,
		AccountType:      req.AccountType,
		SubType:          req.SubType,
		NormalBalance:    req.NormalBalance,
		ParentCode:       req.ParentCode,
		IsControlAccount: req.IsControlAccount,
		IsTaxAccount:     req.IsTaxAccount,
		IsActive:         true,
		IsSystemAccount:  req.IsSystemAccount,
		AuditFields:      domain.NewAuditFields(actorID, time.Now().UTC()),
	}

	derived := domain.DeriveNormalBalance(req.AccountType)
	if account.NormalBalance == "" {
		account.NormalBalance = derived
	} else if account.NormalBalance != derived && !account.IsContra() {
		// Divergence is never silent: only explicitly contra sub-types may
		// carry the opposite side.
		return nil, fmt.Errorf("%w: %s accounts carry a %s balance", ErrNormalBalanceMismatch, req.AccountType, derived)
	}

	if req.ParentCode != "" {
		if _, err := s.accountRepo.FindAccountByCode(ctx, req.ParentCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, req.ParentCode)
			}
			return nil, fmt.Errorf("failed to resolve parent account: %w", err)
		}
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("code", account.Code))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("code", account.Code), slog.String("type", string(account.AccountType)))
	return &account, nil
}

// GetAccountByCode retrieves a single account.
func (s *AccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts returns accounts matching the filter in stable code order.
func (s *AccountService) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// SetAccountActive activates or deactivates an account. System accounts are
// protected.
func (s *AccountService) SetAccountActive(ctx context.Context, code string, active bool, actorID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	if account.IsSystemAccount {
		return nil, fmt.Errorf("%w: account %s", ErrProtectedAccount, code)
	}
	if account.IsActive == active {
		return account, nil
	}

	account.IsActive = active
	account.Touch(actorID, time.Now().UTC())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account active flag", slog.String("code", code))
		return nil, fmt.Errorf("failed to update account %s: %w", code, err)
	}

	s.LogInfo(ctx, "Account active flag changed", slog.String("code", code), slog.Bool("active", active))
	return account, nil
}

// ToggleAccountActive flips the active flag. System accounts are protected.
func (s *AccountService) ToggleAccountActive(ctx context.Context, code string, actorID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return s.SetAccountActive(ctx, code, !account.IsActive, actorID)
}

// DeleteAccount removes an account. System accounts and accounts referenced
// by posted line items are protected.
func (s *AccountService) DeleteAccount(ctx context.Context, code string, actorID string) error {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", code, err)
	}
	if account.IsSystemAccount {
		return fmt.Errorf("%w: account %s", ErrProtectedAccount, code)
	}

	referenced, err := s.journalRepo.HasPostedLinesForAccount(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to check posted references", slog.String("code", code))
		return fmt.Errorf("failed to check references for account %s: %w", code, err)
	}
	if referenced {
		return fmt.Errorf("%w: account %s", ErrAccountInUse, code)
	}

	if err := s.accountRepo.DeleteAccount(ctx, code); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("code", code))
		return fmt.Errorf("failed to delete account %s: %w", code, err)
	}

	s.LogInfo(ctx, "Account deleted", slog.String("code", code), slog.String("actor_id", actorID))
	return nil
}

// defaultChart is the suite's standard chart of accounts. The "1-1" subtree
// holds cash and bank accounts.
var defaultChart = []dto.CreateAccountRequest{
	{Code: "1-110", Name: "Cash on Hand", AccountType: domain.Asset, IsSystemAccount: true},
	{Code: "1-120", Name: "Bank Account", AccountType: domain.Asset, IsSystemAccount: true},
	{Code: "1-210", Name: "Accounts Receivable", AccountType: domain.Asset, IsControlAccount: true, IsSystemAccount: true},
	{Code: "1-290", Name: "Allowance for Doubtful Accounts", AccountType: domain.Asset, SubType: "CONTRA_ASSET", NormalBalance: domain.CreditNormal, IsSystemAccount: true},
	{Code: "1-310", Name: "Fixed Assets", AccountType: domain.Asset, IsSystemAccount: true},
	{Code: "1-390", Name: "Accumulated Depreciation", AccountType: domain.Asset, SubType: "CONTRA_ASSET", NormalBalance: domain.CreditNormal, IsSystemAccount: true},
	{Code: "2-110", Name: "Accounts Payable", AccountType: domain.Liability, IsControlAccount: true, IsSystemAccount: true},
	{Code: "2-210", Name: "Bank Loan", AccountType: domain.Liability, IsSystemAccount: true},
	{Code: "2-310", Name: "Tax Payable", AccountType: domain.Liability, IsTaxAccount: true, IsSystemAccount: true},
	{Code: "3-110", Name: "Owner's Capital", AccountType: domain.Equity, IsSystemAccount: true},
	{Code: "3-210", Name: "Retained Earnings", AccountType: domain.Equity, IsSystemAccount: true},
	{Code: "4-110", Name: "Service Revenue", AccountType: domain.Revenue, IsSystemAccount: true},
	{Code: "6-110", Name: "Operating Expense", AccountType: domain.Expense, IsSystemAccount: true},
	{Code: "6-210", Name: "Depreciation Expense", AccountType: domain.Expense, IsSystemAccount: true},
	{Code: "6-310", Name: "Bad Debt Expense", AccountType: domain.Expense, IsSystemAccount: true},
}

// SeedDefaultChart installs the default chart of accounts, skipping codes
// that already exist. It returns the number of accounts created.
func (s *AccountService) SeedDefaultChart(ctx context.Context, actorID string) (int, error) {
	created := 0
	for _, req := range defaultChart {
		if _, err := s.CreateAccount(ctx, req, actorID); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("failed to seed account %s: %w", req.Code, err)
		}
		created++
	}
	s.LogInfo(ctx, "Default chart seeded", slog.Int("created", created))
	return created, nil
}
