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

// InvoiceRepository is the in-memory receivable-invoice read store.
type InvoiceRepository struct {
	store *Store
}

var _ portsrepo.InvoiceRepository = (*InvoiceRepository)(nil)

func (r *InvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.ReceivableInvoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.invoices[invoice.InvoiceID]; exists {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, invoice.InvoiceID)
	}
	r.store.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (r *InvoiceRepository) ListOutstanding(ctx context.Context, asOf time.Time) ([]domain.ReceivableInvoice, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	invoices := make([]domain.ReceivableInvoice, 0)
	for _, inv := range r.store.invoices {
		if inv.IsWrittenOff || !inv.OutstandingAmount.IsPositive() {
			continue
		}
		if inv.IssueDate.After(asOf) {
			continue
		}
		invoices = append(invoices, inv)
	}
	sort.Slice(invoices, func(i, j int) bool {
		if !invoices[i].DueDate.Equal(invoices[j].DueDate) {
			return invoices[i].DueDate.Before(invoices[j].DueDate)
		}
		return invoices[i].Number < invoices[j].Number
	})
	return invoices, nil
}

func (r *InvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.ReceivableInvoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.invoices[invoice.InvoiceID]; !ok {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoice.InvoiceID)
	}
	r.store.invoices[invoice.InvoiceID] = invoice
	return nil
}
