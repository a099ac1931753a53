package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/utils/accounting"
)

// ECLAccounts names the posting accounts for the provisioning entry.
type ECLAccounts struct {
	ExpenseAccount   string
	AllowanceAccount string
}

// ECLService computes expected credit loss over outstanding receivables and
// emits one aggregate provisioning entry per run. The per-invoice and
// per-bucket breakdowns always reconcile to the entry total.
type ECLService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepository
	journalSvc  portssvc.JournalSvc
	postingSvc  portssvc.PostingSvc
	accounts    ECLAccounts
	rates       map[domain.AgingBucket]decimal.Decimal
}

// NewECLService creates a new ECLService with the configured per-bucket
// loss rates.
func NewECLService(invoiceRepo portsrepo.InvoiceRepository, journalSvc portssvc.JournalSvc, postingSvc portssvc.PostingSvc, accounts ECLAccounts, rates map[domain.AgingBucket]decimal.Decimal) *ECLService {
	return &ECLService{
		invoiceRepo: invoiceRepo,
		journalSvc:  journalSvc,
		postingSvc:  postingSvc,
		accounts:    accounts,
		rates:       rates,
	}
}

var _ portssvc.ECLSvc = (*ECLService)(nil)

// ProcessMonthly provisions expected credit loss for every outstanding,
// not-written-off invoice at calculationDate.
func (s *ECLService) ProcessMonthly(ctx context.Context, calculationDate time.Time, autoPost bool, actorID string) (*domain.ECLRunResult, error) {
	invoices, err := s.invoiceRepo.ListOutstanding(ctx, calculationDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to list outstanding invoices for ECL run")
		return nil, fmt.Errorf("failed to list outstanding invoices: %w", err)
	}

	result := &domain.ECLRunResult{
		CalculationDate: calculationDate,
		TotalECLAmount:  decimal.Zero,
		Details:         make([]domain.ECLInvoiceDetail, 0, len(invoices)),
		BucketTotals:    make(map[domain.AgingBucket]decimal.Decimal, len(domain.AgingBuckets)),
	}
	for _, bucket := range domain.AgingBuckets {
		result.BucketTotals[bucket] = decimal.Zero
	}

	for _, inv := range invoices {
		days := domain.DaysPastDue(inv.DueDate, calculationDate)
		bucket := domain.BucketForDaysPastDue(days)
		rate := s.rates[bucket]
		eclAmount := accounting.RoundMoney(inv.OutstandingAmount.Mul(rate))

		result.Details = append(result.Details, domain.ECLInvoiceDetail{
			InvoiceID:         inv.InvoiceID,
			Number:            inv.Number,
			DaysPastDue:       days,
			Bucket:            bucket,
			Rate:              rate,
			OutstandingAmount: inv.OutstandingAmount,
			ECLAmount:         eclAmount,
		})
		result.BucketTotals[bucket] = result.BucketTotals[bucket].Add(eclAmount)
		result.TotalECLAmount = result.TotalECLAmount.Add(eclAmount)
		result.Processed++
	}

	if result.TotalECLAmount.IsPositive() {
		entry, err := s.journalSvc.CreateEntry(ctx, dto.CreateEntryRequest{
			EntryDate:   calculationDate,
			Description: fmt.Sprintf("ECL provision (%s)", calculationDate.Format("2006-01-02")),
			SourceType:  domain.SourceECLProvision,
			Lines: []dto.CreateLineRequest{
				{AccountCode: s.accounts.ExpenseAccount, Debit: result.TotalECLAmount, Description: "Expected credit loss provision"},
				{AccountCode: s.accounts.AllowanceAccount, Credit: result.TotalECLAmount, Description: "Allowance for doubtful accounts"},
			},
		}, actorID)
		if err != nil {
			s.LogError(ctx, err, "Failed to create ECL provisioning entry")
			return result, fmt.Errorf("failed to create provisioning entry: %w", err)
		}
		result.EntryID = entry.EntryID

		if autoPost {
			if _, err := s.postingSvc.PostEntry(ctx, entry.EntryID, actorID); err != nil {
				s.LogError(ctx, err, "Failed to post ECL provisioning entry", slog.String("entry_id", entry.EntryID))
				return result, fmt.Errorf("failed to post provisioning entry: %w", err)
			}
			result.Posted = 1
		}
	}

	s.LogInfo(ctx, "ECL run completed",
		slog.String("calculation_date", calculationDate.Format("2006-01-02")),
		slog.Int("processed", result.Processed),
		slog.String("total_ecl", result.TotalECLAmount.String()))
	return result, nil
}
