package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for the receivable-invoice
// read store.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepository = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, number, customer_name, issue_date, due_date, outstanding_amount, is_written_off`

func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.ReceivableInvoice) error {
	query := `
		INSERT INTO receivable_invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.Number,
		invoice.CustomerName,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.OutstandingAmount,
		invoice.IsWrittenOff,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, invoice.InvoiceID)
		}
		return fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

func (r *PgxInvoiceRepository) ListOutstanding(ctx context.Context, asOf time.Time) ([]domain.ReceivableInvoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM receivable_invoices
		WHERE is_written_off = FALSE AND outstanding_amount > 0 AND issue_date <= $1
		ORDER BY due_date, number;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.ReceivableInvoice{}
	for rows.Next() {
		var inv domain.ReceivableInvoice
		if err := rows.Scan(&inv.InvoiceID, &inv.Number, &inv.CustomerName, &inv.IssueDate, &inv.DueDate, &inv.OutstandingAmount, &inv.IsWrittenOff); err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", rows.Err())
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.ReceivableInvoice) error {
	query := `
		UPDATE receivable_invoices
		SET number = $2, customer_name = $3, issue_date = $4, due_date = $5,
		    outstanding_amount = $6, is_written_off = $7
		WHERE invoice_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.Number,
		invoice.CustomerName,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.OutstandingAmount,
		invoice.IsWrittenOff,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoice.InvoiceID)
	}
	return nil
}
