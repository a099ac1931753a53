package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

// CashBankRepository is the in-memory monthly balance-chain store.
type CashBankRepository struct {
	store *Store
}

var _ portsrepo.CashBankRepository = (*CashBankRepository)(nil)

func (r *CashBankRepository) SaveBalance(ctx context.Context, balance domain.CashBankBalance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.balances[balance.BalanceID]; exists {
		return fmt.Errorf("%w: balance %s", apperrors.ErrDuplicate, balance.BalanceID)
	}
	for _, b := range r.store.balances {
		if b.Year == balance.Year && b.Month == balance.Month {
			return fmt.Errorf("%w: balance for %04d-%02d", apperrors.ErrDuplicate, balance.Year, balance.Month)
		}
	}
	r.store.balances[balance.BalanceID] = balance
	return nil
}

func (r *CashBankRepository) FindBalanceByID(ctx context.Context, balanceID string) (*domain.CashBankBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	balance, ok := r.store.balances[balanceID]
	if !ok {
		return nil, fmt.Errorf("%w: balance %s", apperrors.ErrNotFound, balanceID)
	}
	return &balance, nil
}

func (r *CashBankRepository) FindBalanceByMonth(ctx context.Context, year, month int) (*domain.CashBankBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, b := range r.store.balances {
		if b.Year == year && b.Month == month {
			balance := b
			return &balance, nil
		}
	}
	return nil, fmt.Errorf("%w: balance for %04d-%02d", apperrors.ErrNotFound, year, month)
}

func (r *CashBankRepository) ListBalances(ctx context.Context) ([]domain.CashBankBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	balances := make([]domain.CashBankBalance, 0, len(r.store.balances))
	for _, b := range r.store.balances {
		balances = append(balances, b)
	}
	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Year != balances[j].Year {
			return balances[i].Year < balances[j].Year
		}
		return balances[i].Month < balances[j].Month
	})
	return balances, nil
}

func (r *CashBankRepository) UpdateBalance(ctx context.Context, balance domain.CashBankBalance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.balances[balance.BalanceID]; !ok {
		return fmt.Errorf("%w: balance %s", apperrors.ErrNotFound, balance.BalanceID)
	}
	r.store.balances[balance.BalanceID] = balance
	return nil
}

func (r *CashBankRepository) DeleteBalance(ctx context.Context, balanceID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.balances[balanceID]; !ok {
		return fmt.Errorf("%w: balance %s", apperrors.ErrNotFound, balanceID)
	}
	delete(r.store.balances, balanceID)
	return nil
}
