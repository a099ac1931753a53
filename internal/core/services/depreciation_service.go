package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/utils/accounting"
)

// DepreciationAccounts names the default posting accounts for depreciation
// entries; per-asset overrides take precedence.
type DepreciationAccounts struct {
	ExpenseAccount     string
	AccumulatedAccount string
}

// DepreciationService computes each active asset's periodic depreciation
// and emits one journal entry per asset.
type DepreciationService struct {
	BaseService
	assetRepo  portsrepo.AssetRepository
	journalSvc portssvc.JournalSvc
	postingSvc portssvc.PostingSvc
	accounts   DepreciationAccounts
}

// NewDepreciationService creates a new DepreciationService.
func NewDepreciationService(assetRepo portsrepo.AssetRepository, journalSvc portssvc.JournalSvc, postingSvc portssvc.PostingSvc, accounts DepreciationAccounts) *DepreciationService {
	return &DepreciationService{
		assetRepo:  assetRepo,
		journalSvc: journalSvc,
		postingSvc: postingSvc,
		accounts:   accounts,
	}
}

var _ portssvc.DepreciationSvc = (*DepreciationService)(nil)

// periodAmount computes one period's depreciation for the asset, clamped so
// the net book value never drops below salvage.
func periodAmount(asset domain.FixedAsset) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch asset.Method {
	case domain.StraightLine:
		if asset.UsefulLifePeriods <= 0 {
			return decimal.Zero, fmt.Errorf("%w: asset %s has no useful life configured", apperrors.ErrValidation, asset.AssetID)
		}
		amount = asset.Cost.Sub(asset.SalvageValue).Div(decimal.NewFromInt(int64(asset.UsefulLifePeriods)))
	case domain.DecliningBalance:
		amount = asset.NetBookValue().Mul(asset.Rate)
	case domain.UnitsOfProduction:
		amount = asset.Rate.Mul(asset.UnitsConsumed)
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown depreciation method %q", apperrors.ErrValidation, asset.Method)
	}

	amount = accounting.RoundMoney(amount)
	remaining := asset.NetBookValue().Sub(asset.SalvageValue)
	if amount.GreaterThan(remaining) {
		amount = remaining
	}
	return amount, nil
}

// ProcessMonthly runs depreciation for every active asset at periodDate.
// Fully depreciated assets are skipped, a single asset's failure is
// recorded without aborting the run, and only infrastructure-level errors
// stop the batch.
func (s *DepreciationService) ProcessMonthly(ctx context.Context, periodDate time.Time, autoPost bool, actorID string) (*domain.DepreciationRunResult, error) {
	assets, err := s.assetRepo.ListAssets(ctx, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list assets for depreciation run")
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	result := &domain.DepreciationRunResult{
		PeriodDate: periodDate,
		Details:    make([]domain.DepreciationDetail, 0, len(assets)),
	}

	for _, asset := range assets {
		detail, err := s.processAsset(ctx, asset, periodDate, autoPost, actorID)
		result.Details = append(result.Details, detail)

		switch {
		case err == nil && detail.Skipped:
			result.Skipped++
		case err == nil:
			result.Processed++
			if autoPost {
				result.Posted++
			}
		case apperrors.IsRecoverable(err):
			result.Failed++
			s.LogWarn(ctx, "Asset depreciation failed",
				slog.String("asset_id", asset.AssetID),
				slog.String("error", err.Error()))
		default:
			// Store-level failure: do not start the next item.
			result.Failed++
			s.LogError(ctx, err, "Depreciation run aborted", slog.String("asset_id", asset.AssetID))
			return result, fmt.Errorf("depreciation run aborted at asset %s: %w", asset.AssetID, err)
		}
	}

	s.LogInfo(ctx, "Depreciation run completed",
		slog.String("period", periodDate.Format("2006-01")),
		slog.Int("processed", result.Processed),
		slog.Int("posted", result.Posted),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (s *DepreciationService) processAsset(ctx context.Context, asset domain.FixedAsset, periodDate time.Time, autoPost bool, actorID string) (domain.DepreciationDetail, error) {
	detail := domain.DepreciationDetail{
		AssetID:      asset.AssetID,
		AssetName:    asset.Name,
		Method:       asset.Method,
		Amount:       decimal.Zero,
		NetBookValue: asset.NetBookValue(),
	}

	if asset.IsFullyDepreciated() {
		detail.Skipped = true
		detail.AccumulatedAfter = asset.AccumulatedDepreciation
		return detail, nil
	}

	amount, err := periodAmount(asset)
	if err != nil {
		detail.Error = err.Error()
		return detail, err
	}
	if !amount.IsPositive() {
		detail.Skipped = true
		detail.AccumulatedAfter = asset.AccumulatedDepreciation
		return detail, nil
	}

	expenseAccount := asset.ExpenseAccountCode
	if expenseAccount == "" {
		expenseAccount = s.accounts.ExpenseAccount
	}
	accumulatedAccount := asset.AccumulatedAccountCode
	if accumulatedAccount == "" {
		accumulatedAccount = s.accounts.AccumulatedAccount
	}

	entry, err := s.journalSvc.CreateEntry(ctx, dto.CreateEntryRequest{
		EntryDate:   periodDate,
		Description: fmt.Sprintf("Depreciation %s (%s)", asset.Name, periodDate.Format("2006-01")),
		SourceType:  domain.SourceDepreciation,
		SourceID:    asset.AssetID,
		Lines: []dto.CreateLineRequest{
			{AccountCode: expenseAccount, Debit: amount, Description: asset.Name},
			{AccountCode: accumulatedAccount, Credit: amount, Description: asset.Name},
		},
	}, actorID)
	if err != nil {
		detail.Error = err.Error()
		return detail, err
	}
	detail.EntryID = entry.EntryID

	if autoPost {
		if _, err := s.postingSvc.PostEntry(ctx, entry.EntryID, actorID); err != nil {
			detail.Error = err.Error()
			return detail, err
		}
	}

	asset.AccumulatedDepreciation = asset.AccumulatedDepreciation.Add(amount)
	asset.Touch(actorID, time.Now().UTC())
	if err := s.assetRepo.UpdateAsset(ctx, asset); err != nil {
		detail.Error = err.Error()
		return detail, err
	}

	detail.Amount = amount
	detail.AccumulatedAfter = asset.AccumulatedDepreciation
	detail.NetBookValue = asset.NetBookValue()
	return detail, nil
}
