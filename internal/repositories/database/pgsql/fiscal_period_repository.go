package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal periods.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepository = (*PgxFiscalPeriodRepository)(nil)

const periodColumns = `period_id, code, name, period_type, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (domain.FiscalPeriod, error) {
	var p domain.FiscalPeriod
	err := row.Scan(
		&p.PeriodID,
		&p.Code,
		&p.Name,
		&p.PeriodType,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.Code,
		period.Name,
		period.PeriodType,
		period.StartDate,
		period.EndDate,
		period.Status,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: period code %s", apperrors.ErrDuplicate, period.Code)
		}
		return fmt.Errorf("failed to save period %s: %w", period.PeriodID, err)
	}
	return nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE period_id = $1;`

	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: period %s", apperrors.ErrNotFound, periodID)
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}
	return &period, nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByCode(ctx context.Context, code string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE code = $1;`

	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: period code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find period by code %s: %w", code, err)
	}
	return &period, nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodForDate(ctx context.Context, d time.Time, t domain.PeriodType) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE period_type = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date
		LIMIT 1;
	`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, t, d))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no %s period contains %s", apperrors.ErrNotFound, t, d.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find period for date %s: %w", d.Format("2006-01-02"), err)
	}
	return &period, nil
}

func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods ORDER BY start_date, code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, period)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows: %w", rows.Err())
	}
	return periods, nil
}

func (r *PgxFiscalPeriodRepository) UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		UPDATE fiscal_periods
		SET name = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.Name,
		period.Status,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update period %s: %w", period.PeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: period %s", apperrors.ErrNotFound, period.PeriodID)
	}
	return nil
}
