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
	"github.com/arkastudio/studio_ledger/internal/utils/accounting"
)

// classifyCashFlow maps an entry's transaction source to its cash-flow
// activity bucket. Classification follows the other side of the entry, not
// the cash account code; unknown sources default to operating.
var classifyCashFlow = map[domain.SourceType]domain.CashFlowCategory{
	domain.SourceAssetPurchase:    domain.Investing,
	domain.SourceAssetDisposal:    domain.Investing,
	domain.SourceLoanDrawdown:     domain.Financing,
	domain.SourceLoanRepayment:    domain.Financing,
	domain.SourceCapitalInjection: domain.Financing,
	domain.SourceOwnerDrawing:     domain.Financing,
}

// StatementService derives income statement, balance sheet, cash-flow
// statement and AR aging from ledger data.
type StatementService struct {
	BaseService
	accountRepo    portsrepo.AccountRepository
	journalRepo    portsrepo.JournalRepository
	invoiceRepo    portsrepo.InvoiceRepository
	cashPrefix     string
	balanceEpsilon decimal.Decimal
}

// NewStatementService creates a new StatementService. cashPrefix is the
// account-code prefix of the cash/bank subtree; balanceEpsilon bounds
// acceptable rounding drift in the balance-sheet equation.
func NewStatementService(accountRepo portsrepo.AccountRepository, journalRepo portsrepo.JournalRepository, invoiceRepo portsrepo.InvoiceRepository, cashPrefix string, balanceEpsilon decimal.Decimal) *StatementService {
	return &StatementService{
		accountRepo:    accountRepo,
		journalRepo:    journalRepo,
		invoiceRepo:    invoiceRepo,
		cashPrefix:     cashPrefix,
		balanceEpsilon: balanceEpsilon,
	}
}

var _ portssvc.StatementSvc = (*StatementService)(nil)

// accountSums aggregates posted lines per account over a filter.
func (s *StatementService) accountSums(ctx context.Context, filter portsrepo.LineFilter) (map[string][2]decimal.Decimal, error) {
	lines, err := s.journalRepo.ListPostedLines(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load posted lines: %w", err)
	}
	byAccount := make(map[string][2]decimal.Decimal)
	for _, l := range lines {
		agg := byAccount[l.AccountCode]
		agg[0] = agg[0].Add(l.Debit)
		agg[1] = agg[1].Add(l.Credit)
		byAccount[l.AccountCode] = agg
	}
	return byAccount, nil
}

// IncomeStatement reports revenue, expenses and net income for the range.
// Profit margin is zero, not a division fault, when revenue is zero.
func (s *StatementService) IncomeStatement(ctx context.Context, startDate, endDate time.Time) (*domain.IncomeStatement, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sums, err := s.accountSums(ctx, portsrepo.LineFilter{DateFrom: &startDate, DateTo: &endDate})
	if err != nil {
		return nil, err
	}

	stmt := &domain.IncomeStatement{
		StartDate:     startDate,
		EndDate:       endDate,
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, account := range accounts {
		agg, ok := sums[account.Code]
		if !ok {
			continue
		}
		switch account.AccountType {
		case domain.Revenue:
			net := accounting.NetCredit(agg[0], agg[1])
			stmt.Revenue = append(stmt.Revenue, domain.AccountAmount{AccountCode: account.Code, Name: account.Name, NetAmount: net})
			stmt.TotalRevenue = stmt.TotalRevenue.Add(net)
		case domain.Expense:
			net := accounting.NetDebit(agg[0], agg[1])
			stmt.Expenses = append(stmt.Expenses, domain.AccountAmount{AccountCode: account.Code, Name: account.Name, NetAmount: net})
			stmt.TotalExpenses = stmt.TotalExpenses.Add(net)
		}
	}

	stmt.NetIncome = stmt.TotalRevenue.Sub(stmt.TotalExpenses)
	if stmt.TotalRevenue.IsZero() {
		stmt.ProfitMargin = decimal.Zero
	} else {
		stmt.ProfitMargin = stmt.NetIncome.Div(stmt.TotalRevenue).Mul(decimal.NewFromInt(100)).RoundBank(accounting.MoneyScale)
	}

	s.LogDebug(ctx, "Income statement generated",
		slog.String("from", startDate.Format("2006-01-02")),
		slog.String("to", endDate.Format("2006-01-02")),
		slog.String("net_income", stmt.NetIncome.String()))
	return stmt, nil
}

// BalanceSheet reports the financial position at a date. The un-closed
// revenue-minus-expense result is folded into equity as current earnings so
// the accounting equation holds on engine-generated data; a residual
// difference beyond epsilon is reported, not concealed.
func (s *StatementService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sums, err := s.accountSums(ctx, portsrepo.LineFilter{DateTo: &asOf})
	if err != nil {
		return nil, err
	}

	sheet := &domain.BalanceSheet{
		AsOf:             asOf,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		CurrentEarnings:  decimal.Zero,
	}

	for _, account := range accounts {
		agg, ok := sums[account.Code]
		if !ok {
			continue
		}
		switch account.AccountType {
		case domain.Asset:
			// Contra assets carry a credit net and reduce the total here.
			net := accounting.NetDebit(agg[0], agg[1])
			sheet.Assets = append(sheet.Assets, domain.AccountAmount{AccountCode: account.Code, Name: account.Name, NetAmount: net})
			sheet.TotalAssets = sheet.TotalAssets.Add(net)
		case domain.Liability:
			net := accounting.NetCredit(agg[0], agg[1])
			sheet.Liabilities = append(sheet.Liabilities, domain.AccountAmount{AccountCode: account.Code, Name: account.Name, NetAmount: net})
			sheet.TotalLiabilities = sheet.TotalLiabilities.Add(net)
		case domain.Equity:
			net := accounting.NetCredit(agg[0], agg[1])
			sheet.Equity = append(sheet.Equity, domain.AccountAmount{AccountCode: account.Code, Name: account.Name, NetAmount: net})
			sheet.TotalEquity = sheet.TotalEquity.Add(net)
		case domain.Revenue:
			sheet.CurrentEarnings = sheet.CurrentEarnings.Add(accounting.NetCredit(agg[0], agg[1]))
		case domain.Expense:
			sheet.CurrentEarnings = sheet.CurrentEarnings.Sub(accounting.NetDebit(agg[0], agg[1]))
		}
	}

	sheet.TotalEquity = sheet.TotalEquity.Add(sheet.CurrentEarnings)
	sheet.Difference = sheet.TotalAssets.Sub(sheet.TotalLiabilities.Add(sheet.TotalEquity))
	sheet.IsBalanced = sheet.Difference.Abs().LessThanOrEqual(s.balanceEpsilon)

	if !sheet.IsBalanced {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("as_of", asOf.Format("2006-01-02")),
			slog.String("difference", sheet.Difference.String()))
	}
	return sheet, nil
}

// CashFlowStatement classifies every posted cash/bank movement in range
// into operating, investing and financing activities by the entry's
// transaction source.
func (s *StatementService) CashFlowStatement(ctx context.Context, startDate, endDate time.Time) (*domain.CashFlowStatement, error) {
	lines, err := s.journalRepo.ListPostedLines(ctx, portsrepo.LineFilter{
		DateFrom:          &startDate,
		DateTo:            &endDate,
		AccountCodePrefix: s.cashPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cash lines: %w", err)
	}

	stmt := &domain.CashFlowStatement{
		StartDate:      startDate,
		EndDate:        endDate,
		TotalOperating: decimal.Zero,
		TotalInvesting: decimal.Zero,
		TotalFinancing: decimal.Zero,
	}

	for _, l := range lines {
		category, ok := classifyCashFlow[l.SourceType]
		if !ok {
			category = domain.Operating
		}
		flow := domain.CashFlowLine{
			EntryID:     l.EntryID,
			EntryDate:   l.EntryDate,
			SourceType:  l.SourceType,
			Category:    category,
			Description: l.Description,
			Amount:      l.Debit.Sub(l.Credit),
		}
		switch category {
		case domain.Investing:
			stmt.Investing = append(stmt.Investing, flow)
			stmt.TotalInvesting = stmt.TotalInvesting.Add(flow.Amount)
		case domain.Financing:
			stmt.Financing = append(stmt.Financing, flow)
			stmt.TotalFinancing = stmt.TotalFinancing.Add(flow.Amount)
		default:
			stmt.Operating = append(stmt.Operating, flow)
			stmt.TotalOperating = stmt.TotalOperating.Add(flow.Amount)
		}
	}

	stmt.NetCashFlow = stmt.TotalOperating.Add(stmt.TotalInvesting).Add(stmt.TotalFinancing)

	// Opening balance is the cash position the day before the range starts.
	dayBefore := startDate.AddDate(0, 0, -1)
	opening, err := s.cashPositionAsOf(ctx, dayBefore)
	if err != nil {
		return nil, err
	}
	stmt.OpeningBalance = opening
	stmt.ClosingBalance = opening.Add(stmt.NetCashFlow)

	s.LogDebug(ctx, "Cash-flow statement generated",
		slog.String("from", startDate.Format("2006-01-02")),
		slog.String("to", endDate.Format("2006-01-02")),
		slog.String("net_cash_flow", stmt.NetCashFlow.String()))
	return stmt, nil
}

func (s *StatementService) cashPositionAsOf(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	lines, err := s.journalRepo.ListPostedLines(ctx, portsrepo.LineFilter{
		DateTo:            &asOf,
		AccountCodePrefix: s.cashPrefix,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load cash lines: %w", err)
	}
	position := decimal.Zero
	for _, l := range lines {
		position = position.Add(l.Debit).Sub(l.Credit)
	}
	return position, nil
}

// ARAgingReport buckets unpaid invoices by days overdue at the given date.
func (s *StatementService) ARAgingReport(ctx context.Context, asOf time.Time) (*domain.ARAgingReport, error) {
	invoices, err := s.invoiceRepo.ListOutstanding(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to list outstanding invoices")
		return nil, fmt.Errorf("failed to list outstanding invoices: %w", err)
	}

	report := &domain.ARAgingReport{
		AsOf:         asOf,
		Rows:         make([]domain.ARAgingRow, 0, len(invoices)),
		BucketTotals: make(map[domain.AgingBucket]decimal.Decimal, len(domain.AgingBuckets)),
		GrandTotal:   decimal.Zero,
	}
	for _, bucket := range domain.AgingBuckets {
		report.BucketTotals[bucket] = decimal.Zero
	}

	for _, inv := range invoices {
		days := domain.DaysPastDue(inv.DueDate, asOf)
		bucket := domain.BucketForDaysPastDue(days)
		report.Rows = append(report.Rows, domain.ARAgingRow{
			InvoiceID:         inv.InvoiceID,
			Number:            inv.Number,
			CustomerName:      inv.CustomerName,
			DueDate:           inv.DueDate,
			DaysOverdue:       days,
			Bucket:            bucket,
			OutstandingAmount: inv.OutstandingAmount,
		})
		report.BucketTotals[bucket] = report.BucketTotals[bucket].Add(inv.OutstandingAmount)
		report.GrandTotal = report.GrandTotal.Add(inv.OutstandingAmount)
	}

	return report, nil
}
