package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

// FiscalPeriodRepository is the in-memory fiscal-period store.
type FiscalPeriodRepository struct {
	store *Store
}

var _ portsrepo.FiscalPeriodRepository = (*FiscalPeriodRepository)(nil)

func (r *FiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.periods[period.PeriodID]; exists {
		return fmt.Errorf("%w: period %s", apperrors.ErrDuplicate, period.PeriodID)
	}
	for _, p := range r.store.periods {
		if p.Code == period.Code {
			return fmt.Errorf("%w: period code %s", apperrors.ErrDuplicate, period.Code)
		}
	}
	r.store.periods[period.PeriodID] = period
	return nil
}

func (r *FiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	period, ok := r.store.periods[periodID]
	if !ok {
		return nil, fmt.Errorf("%w: period %s", apperrors.ErrNotFound, periodID)
	}
	return &period, nil
}

func (r *FiscalPeriodRepository) FindPeriodByCode(ctx context.Context, code string) (*domain.FiscalPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.periods {
		if p.Code == code {
			period := p
			return &period, nil
		}
	}
	return nil, fmt.Errorf("%w: period code %s", apperrors.ErrNotFound, code)
}

func (r *FiscalPeriodRepository) FindPeriodForDate(ctx context.Context, d time.Time, t domain.PeriodType) (*domain.FiscalPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.periods {
		if p.PeriodType == t && p.Contains(d) {
			period := p
			return &period, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s period contains %s", apperrors.ErrNotFound, t, d.Format("2006-01-02"))
}

func (r *FiscalPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	periods := make([]domain.FiscalPeriod, 0, len(r.store.periods))
	for _, p := range r.store.periods {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		if !periods[i].StartDate.Equal(periods[j].StartDate) {
			return periods[i].StartDate.Before(periods[j].StartDate)
		}
		return periods[i].Code < periods[j].Code
	})
	return periods, nil
}

func (r *FiscalPeriodRepository) UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.periods[period.PeriodID]; !ok {
		return fmt.Errorf("%w: period %s", apperrors.ErrNotFound, period.PeriodID)
	}
	r.store.periods[period.PeriodID] = period
	return nil
}
