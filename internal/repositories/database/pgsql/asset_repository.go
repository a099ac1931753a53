package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

type PgxAssetRepository struct {
	BaseRepository
}

// newPgxAssetRepository creates a new repository for the fixed-asset register.
func newPgxAssetRepository(pool *pgxpool.Pool) portsrepo.AssetRepository {
	return &PgxAssetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AssetRepository = (*PgxAssetRepository)(nil)

const assetColumns = `asset_id, name, cost, salvage_value, useful_life_periods, method, rate, units_consumed, accumulated_depreciation, acquired_at, is_active, expense_account_code, accumulated_account_code, created_at, created_by, last_updated_at, last_updated_by`

func scanAsset(row pgx.Row) (domain.FixedAsset, error) {
	var a domain.FixedAsset
	err := row.Scan(
		&a.AssetID,
		&a.Name,
		&a.Cost,
		&a.SalvageValue,
		&a.UsefulLifePeriods,
		&a.Method,
		&a.Rate,
		&a.UnitsConsumed,
		&a.AccumulatedDepreciation,
		&a.AcquiredAt,
		&a.IsActive,
		&a.ExpenseAccountCode,
		&a.AccumulatedAccountCode,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

func (r *PgxAssetRepository) SaveAsset(ctx context.Context, asset domain.FixedAsset) error {
	query := `
		INSERT INTO fixed_assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		asset.AssetID,
		asset.Name,
		asset.Cost,
		asset.SalvageValue,
		asset.UsefulLifePeriods,
		asset.Method,
		asset.Rate,
		asset.UnitsConsumed,
		asset.AccumulatedDepreciation,
		asset.AcquiredAt,
		asset.IsActive,
		asset.ExpenseAccountCode,
		asset.AccumulatedAccountCode,
		asset.CreatedAt,
		asset.CreatedBy,
		asset.LastUpdatedAt,
		asset.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asset %s", apperrors.ErrDuplicate, asset.AssetID)
		}
		return fmt.Errorf("failed to save asset %s: %w", asset.AssetID, err)
	}
	return nil
}

func (r *PgxAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE asset_id = $1;`

	asset, err := scanAsset(r.Pool.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, assetID)
		}
		return nil, fmt.Errorf("failed to find asset by ID %s: %w", assetID, err)
	}
	return &asset, nil
}

func (r *PgxAssetRepository) ListAssets(ctx context.Context, activeOnly bool) ([]domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY asset_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := []domain.FixedAsset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", rows.Err())
	}
	return assets, nil
}

func (r *PgxAssetRepository) UpdateAsset(ctx context.Context, asset domain.FixedAsset) error {
	query := `
		UPDATE fixed_assets
		SET name = $2, cost = $3, salvage_value = $4, useful_life_periods = $5,
		    method = $6, rate = $7, units_consumed = $8, accumulated_depreciation = $9,
		    is_active = $10, expense_account_code = $11, accumulated_account_code = $12,
		    last_updated_at = $13, last_updated_by = $14
		WHERE asset_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		asset.AssetID,
		asset.Name,
		asset.Cost,
		asset.SalvageValue,
		asset.UsefulLifePeriods,
		asset.Method,
		asset.Rate,
		asset.UnitsConsumed,
		asset.AccumulatedDepreciation,
		asset.IsActive,
		asset.ExpenseAccountCode,
		asset.AccumulatedAccountCode,
		asset.LastUpdatedAt,
		asset.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", asset.AssetID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, asset.AssetID)
	}
	return nil
}
