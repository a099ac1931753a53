package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/utils/locking"
)

// FiscalPeriodService tracks period open/closed status and gates posting.
type FiscalPeriodService struct {
	BaseService
	periodRepo portsrepo.FiscalPeriodRepository
	locks      *locking.KeyedMutex
}

// NewFiscalPeriodService creates a new FiscalPeriodService. The keyed mutex
// is the one posting serializes on, so a status change cannot interleave
// with an in-flight posting into the same period.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepository, locks *locking.KeyedMutex) *FiscalPeriodService {
	return &FiscalPeriodService{periodRepo: periodRepo, locks: locks}
}

var _ portssvc.FiscalPeriodSvc = (*FiscalPeriodService)(nil)

// CreatePeriod opens a new fiscal period. The code must be unique and the
// window must not overlap an existing period of the same type.
func (s *FiscalPeriodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: period end date must be after start date", apperrors.ErrValidation)
	}

	existing, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	for _, p := range existing {
		if p.PeriodType != req.PeriodType {
			continue
		}
		if !req.StartDate.After(p.EndDate) && !req.EndDate.Before(p.StartDate) {
			return nil, fmt.Errorf("%w: period %s overlaps %s", apperrors.ErrDuplicate, req.Code, p.Code)
		}
	}

	period := domain.FiscalPeriod{
		PeriodID:    uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		PeriodType:  req.PeriodType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(actorID, time.Now().UTC()),
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period created", slog.String("code", period.Code), slog.String("type", string(period.PeriodType)))
	return &period, nil
}

// GetPeriodByID retrieves a single period.
func (s *FiscalPeriodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	return period, nil
}

// FindPeriodForDate returns the monthly period containing the date.
func (s *FiscalPeriodService) FindPeriodForDate(ctx context.Context, d time.Time) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, d, domain.Monthly)
	if err != nil {
		return nil, fmt.Errorf("failed to find period for %s: %w", d.Format("2006-01-02"), err)
	}
	return period, nil
}

// ListPeriods returns all fiscal periods.
func (s *FiscalPeriodService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list periods")
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// ClosePeriod marks a period CLOSED; postings into it are rejected from
// that point on.
func (s *FiscalPeriodService) ClosePeriod(ctx context.Context, periodID string, actorID string) (*domain.FiscalPeriod, error) {
	return s.setStatus(ctx, periodID, domain.PeriodClosed, actorID)
}

// ReopenPeriod marks a CLOSED period OPEN again.
func (s *FiscalPeriodService) ReopenPeriod(ctx context.Context, periodID string, actorID string) (*domain.FiscalPeriod, error) {
	return s.setStatus(ctx, periodID, domain.PeriodOpen, actorID)
}

func (s *FiscalPeriodService) setStatus(ctx context.Context, periodID string, status domain.PeriodStatus, actorID string) (*domain.FiscalPeriod, error) {
	// Postings into this period hold the same lock between their OPEN check
	// and the status flip; the transition must not land in that window.
	s.locks.Lock(PeriodLockKey(periodID))
	defer s.locks.Unlock(PeriodLockKey(periodID))

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.Status == status {
		return nil, fmt.Errorf("%w: period %s is already %s", apperrors.ErrConflict, period.Code, status)
	}

	period.Status = status
	period.Touch(actorID, time.Now().UTC())
	if err := s.periodRepo.UpdatePeriod(ctx, *period); err != nil {
		s.LogError(ctx, err, "Failed to update period status", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to update period %s: %w", periodID, err)
	}

	s.LogInfo(ctx, "Fiscal period status changed", slog.String("code", period.Code), slog.String("status", string(status)))
	return period, nil
}
