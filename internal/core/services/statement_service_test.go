package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	"github.com/arkastudio/studio_ledger/internal/dto"
)

type StatementServiceTestSuite struct {
	suite.Suite
	env      *testEnv
	augStart time.Time
	augEnd   time.Time
}

func (suite *StatementServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.env.openMonth(suite.T(), 2026, time.July)
	suite.env.openMonth(suite.T(), 2026, time.August)
	suite.augStart = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	suite.augEnd = time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC)
}

// postWithSource creates and posts an entry carrying a transaction source.
func (suite *StatementServiceTestSuite) postWithSource(d time.Time, desc string, source domain.SourceType, lines ...dto.CreateLineRequest) *domain.JournalEntry {
	ctx := context.Background()
	entry, err := suite.env.svc.Journal.CreateEntry(ctx, dto.CreateEntryRequest{
		EntryDate:   d,
		Description: desc,
		SourceType:  source,
		Lines:       lines,
	}, testActor)
	suite.Require().NoError(err)
	posted, err := suite.env.svc.Posting.PostEntry(ctx, entry.EntryID, testActor)
	suite.Require().NoError(err)
	return posted
}

func (suite *StatementServiceTestSuite) augDate(day int) time.Time {
	return time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC)
}

func (suite *StatementServiceTestSuite) TestIncomeStatement() {
	ctx := context.Background()
	suite.env.postEntry(suite.T(), suite.augDate(5), "Service revenue",
		debit("1-110", "1000"), credit("4-110", "1000"))
	suite.env.postEntry(suite.T(), suite.augDate(10), "Office rent",
		debit("6-110", "400"), credit("1-110", "400"))

	stmt, err := suite.env.svc.Statement.IncomeStatement(ctx, suite.augStart, suite.augEnd)

	suite.Require().NoError(err)
	suite.True(stmt.TotalRevenue.Equal(money("1000")))
	suite.True(stmt.TotalExpenses.Equal(money("400")))
	suite.True(stmt.NetIncome.Equal(money("600")))
	suite.True(stmt.ProfitMargin.Equal(money("60")), "got %s", stmt.ProfitMargin)
	suite.Require().Len(stmt.Revenue, 1)
	suite.Equal("4-110", stmt.Revenue[0].AccountCode)
	suite.Require().Len(stmt.Expenses, 1)
	suite.Equal("6-110", stmt.Expenses[0].AccountCode)
}

func (suite *StatementServiceTestSuite) TestIncomeStatement_ZeroRevenue() {
	ctx := context.Background()
	suite.env.postEntry(suite.T(), suite.augDate(10), "Pure cost month",
		debit("6-110", "400"), credit("1-110", "400"))

	stmt, err := suite.env.svc.Statement.IncomeStatement(ctx, suite.augStart, suite.augEnd)

	suite.Require().NoError(err)
	suite.True(stmt.TotalRevenue.IsZero())
	suite.True(stmt.NetIncome.Equal(money("-400")))
	suite.True(stmt.ProfitMargin.IsZero())
}

func (suite *StatementServiceTestSuite) TestBalanceSheet_EquationHolds() {
	ctx := context.Background()
	suite.postWithSource(suite.augDate(1), "Owner capital", domain.SourceCapitalInjection,
		debit("1-120", "5000"), credit("3-110", "5000"))
	suite.env.postEntry(suite.T(), suite.augDate(5), "Service revenue",
		debit("1-110", "1000"), credit("4-110", "1000"))
	suite.env.postEntry(suite.T(), suite.augDate(10), "Office rent",
		debit("6-110", "400"), credit("1-110", "400"))
	// Contra asset reduces the asset total.
	suite.env.postEntry(suite.T(), suite.augDate(31), "Monthly depreciation",
		debit("6-210", "100"), credit("1-390", "100"))

	sheet, err := suite.env.svc.Statement.BalanceSheet(ctx, suite.augEnd)

	suite.Require().NoError(err)
	suite.True(sheet.TotalAssets.Equal(money("5500")), "assets %s", sheet.TotalAssets)
	suite.True(sheet.TotalLiabilities.IsZero())
	suite.True(sheet.CurrentEarnings.Equal(money("500")))
	suite.True(sheet.TotalEquity.Equal(money("5500")))
	suite.True(sheet.IsBalanced)
	suite.True(sheet.Difference.IsZero())
}

func (suite *StatementServiceTestSuite) TestCashFlowStatement_ClassifiesBySource() {
	ctx := context.Background()
	// July activity only shapes the opening balance.
	suite.postWithSource(time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC),
		"Seed capital", domain.SourceCapitalInjection,
		debit("1-110", "50"), credit("3-110", "50"))

	suite.postWithSource(suite.augDate(1), "Owner capital", domain.SourceCapitalInjection,
		debit("1-120", "5000"), credit("3-110", "5000"))
	suite.env.postEntry(suite.T(), suite.augDate(5), "Cash sale",
		debit("1-110", "1000"), credit("4-110", "1000"))
	suite.postWithSource(suite.augDate(10), "Office rent", domain.SourceOperatingExpense,
		debit("6-110", "400"), credit("1-110", "400"))
	suite.postWithSource(suite.augDate(15), "Camera purchase", domain.SourceAssetPurchase,
		debit("1-310", "2000"), credit("1-120", "2000"))

	stmt, err := suite.env.svc.Statement.CashFlowStatement(ctx, suite.augStart, suite.augEnd)

	suite.Require().NoError(err)
	suite.True(stmt.TotalOperating.Equal(money("600")), "operating %s", stmt.TotalOperating)
	suite.True(stmt.TotalInvesting.Equal(money("-2000")))
	suite.True(stmt.TotalFinancing.Equal(money("5000")))
	suite.True(stmt.NetCashFlow.Equal(money("3600")))
	suite.True(stmt.OpeningBalance.Equal(money("50")))
	suite.True(stmt.ClosingBalance.Equal(money("3650")))
	suite.Len(stmt.Financing, 1)
	suite.Len(stmt.Investing, 1)
	suite.Len(stmt.Operating, 2)
}

func (suite *StatementServiceTestSuite) TestARAgingReport_BucketBoundaries() {
	ctx := context.Background()
	asOf := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		daysPastDue int
		bucket      domain.AgingBucket
	}{
		{-5, domain.BucketCurrent},
		{0, domain.BucketCurrent},
		{1, domain.Bucket1To30},
		{30, domain.Bucket1To30},
		{31, domain.Bucket31To60},
		{60, domain.Bucket31To60},
		{61, domain.Bucket61To90},
		{90, domain.Bucket61To90},
		{91, domain.BucketOver90},
	}

	for i, tc := range cases {
		dueDate := asOf.AddDate(0, 0, -tc.daysPastDue)
		err := suite.env.repos.InvoiceRepo.SaveInvoice(ctx, domain.ReceivableInvoice{
			InvoiceID:         uuid.NewString(),
			Number:            string(rune('A' + i)),
			CustomerName:      "Boundary",
			IssueDate:         dueDate.AddDate(0, -1, 0),
			DueDate:           dueDate,
			OutstandingAmount: money("100"),
		})
		suite.Require().NoError(err)
	}

	report, err := suite.env.svc.Statement.ARAgingReport(ctx, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, len(cases))
	suite.True(report.GrandTotal.Equal(money("900")))
	suite.True(report.BucketTotals[domain.BucketCurrent].Equal(money("200")))
	suite.True(report.BucketTotals[domain.Bucket1To30].Equal(money("200")))
	suite.True(report.BucketTotals[domain.Bucket31To60].Equal(money("200")))
	suite.True(report.BucketTotals[domain.Bucket61To90].Equal(money("200")))
	suite.True(report.BucketTotals[domain.BucketOver90].Equal(money("100")))

	byDays := make(map[int]domain.AgingBucket, len(report.Rows))
	for _, row := range report.Rows {
		byDays[row.DaysOverdue] = row.Bucket
	}
	for _, tc := range cases {
		suite.Equal(tc.bucket, byDays[tc.daysPastDue], "days past due %d", tc.daysPastDue)
	}
}

func TestStatementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
