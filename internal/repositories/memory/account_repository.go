package memory

import (
	"context"
	"fmt"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

// AccountRepository is the in-memory chart-of-accounts store.
type AccountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.accounts[account.Code]; exists {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	r.store.accounts[account.Code] = account
	return nil
}

func (r *AccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.store.accounts[code]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, code)
	}
	return &account, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(r.store.accounts))
	for _, code := range sortedAccountCodes(r.store.accounts) {
		account := r.store.accounts[code]
		if filter.AccountType != "" && account.AccountType != filter.AccountType {
			continue
		}
		if filter.SubType != "" && account.SubType != filter.SubType {
			continue
		}
		if filter.ActiveOnly && !account.IsActive {
			continue
		}
		if !hasPrefix(account.Code, filter.CodePrefix) {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[account.Code]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.Code)
	}
	r.store.accounts[account.Code] = account
	return nil
}

func (r *AccountRepository) DeleteAccount(ctx context.Context, code string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[code]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, code)
	}
	delete(r.store.accounts, code)
	return nil
}
