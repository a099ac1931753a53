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

type PgxCashBankRepository struct {
	BaseRepository
}

// newPgxCashBankRepository creates a new repository for the monthly cash/bank
// balance chain.
func newPgxCashBankRepository(pool *pgxpool.Pool) portsrepo.CashBankRepository {
	return &PgxCashBankRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CashBankRepository = (*PgxCashBankRepository)(nil)

const balanceColumns = `balance_id, year, month, opening_balance, total_inflow, total_outflow, closing_balance, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanBalance(row pgx.Row) (domain.CashBankBalance, error) {
	var b domain.CashBankBalance
	err := row.Scan(
		&b.BalanceID,
		&b.Year,
		&b.Month,
		&b.OpeningBalance,
		&b.TotalInflow,
		&b.TotalOutflow,
		&b.ClosingBalance,
		&b.Notes,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	return b, err
}

func (r *PgxCashBankRepository) SaveBalance(ctx context.Context, balance domain.CashBankBalance) error {
	query := `
		INSERT INTO cash_bank_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		balance.BalanceID,
		balance.Year,
		balance.Month,
		balance.OpeningBalance,
		balance.TotalInflow,
		balance.TotalOutflow,
		balance.ClosingBalance,
		balance.Notes,
		balance.CreatedAt,
		balance.CreatedBy,
		balance.LastUpdatedAt,
		balance.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: balance for %04d-%02d", apperrors.ErrDuplicate, balance.Year, balance.Month)
		}
		return fmt.Errorf("failed to save balance %s: %w", balance.BalanceID, err)
	}
	return nil
}

func (r *PgxCashBankRepository) FindBalanceByID(ctx context.Context, balanceID string) (*domain.CashBankBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM cash_bank_balances WHERE balance_id = $1;`

	balance, err := scanBalance(r.Pool.QueryRow(ctx, query, balanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: balance %s", apperrors.ErrNotFound, balanceID)
		}
		return nil, fmt.Errorf("failed to find balance by ID %s: %w", balanceID, err)
	}
	return &balance, nil
}

func (r *PgxCashBankRepository) FindBalanceByMonth(ctx context.Context, year, month int) (*domain.CashBankBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM cash_bank_balances WHERE year = $1 AND month = $2;`

	balance, err := scanBalance(r.Pool.QueryRow(ctx, query, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: balance for %04d-%02d", apperrors.ErrNotFound, year, month)
		}
		return nil, fmt.Errorf("failed to find balance for %04d-%02d: %w", year, month, err)
	}
	return &balance, nil
}

func (r *PgxCashBankRepository) ListBalances(ctx context.Context) ([]domain.CashBankBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM cash_bank_balances ORDER BY year, month;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	balances := []domain.CashBankBalance{}
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		balances = append(balances, balance)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating balance rows: %w", rows.Err())
	}
	return balances, nil
}

func (r *PgxCashBankRepository) UpdateBalance(ctx context.Context, balance domain.CashBankBalance) error {
	query := `
		UPDATE cash_bank_balances
		SET opening_balance = $2, total_inflow = $3, total_outflow = $4,
		    closing_balance = $5, notes = $6, last_updated_at = $7, last_updated_by = $8
		WHERE balance_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		balance.BalanceID,
		balance.OpeningBalance,
		balance.TotalInflow,
		balance.TotalOutflow,
		balance.ClosingBalance,
		balance.Notes,
		balance.LastUpdatedAt,
		balance.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance %s: %w", balance.BalanceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: balance %s", apperrors.ErrNotFound, balance.BalanceID)
	}
	return nil
}

func (r *PgxCashBankRepository) DeleteBalance(ctx context.Context, balanceID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM cash_bank_balances WHERE balance_id = $1;`, balanceID)
	if err != nil {
		return fmt.Errorf("failed to delete balance %s: %w", balanceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: balance %s", apperrors.ErrNotFound, balanceID)
	}
	return nil
}
