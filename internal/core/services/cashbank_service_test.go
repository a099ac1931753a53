package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	"github.com/arkastudio/studio_ledger/internal/core/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
)

type CashBankServiceTestSuite struct {
	suite.Suite
	env *testEnv
}

func (suite *CashBankServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.env.openMonth(suite.T(), 2026, time.August)
}

func (suite *CashBankServiceTestSuite) augDate(day int) time.Time {
	return time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC)
}

// postAugustMovements posts an inflow of 100,000,000 and an outflow of
// 75,000,000 through the bank account.
func (suite *CashBankServiceTestSuite) postAugustMovements() {
	suite.env.postEntry(suite.T(), suite.augDate(5), "Client payment received",
		debit("1-120", "100000000"), credit("4-110", "100000000"))
	suite.env.postEntry(suite.T(), suite.augDate(20), "Vendor payment",
		debit("6-110", "75000000"), credit("1-120", "75000000"))
}

func (suite *CashBankServiceTestSuite) TestCreateBalance_DerivesMovementsAndClosing() {
	ctx := context.Background()
	suite.postAugustMovements()

	balance, err := suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year:           2026,
		Month:          8,
		OpeningBalance: money("50000000"),
	}, testActor)

	suite.Require().NoError(err)
	suite.True(balance.OpeningBalance.Equal(money("50000000")))
	suite.True(balance.TotalInflow.Equal(money("100000000")))
	suite.True(balance.TotalOutflow.Equal(money("75000000")))
	suite.True(balance.ClosingBalance.Equal(money("75000000")))
	suite.True(balance.NetChange().Equal(money("25000000")))
}

func (suite *CashBankServiceTestSuite) TestCreateBalance_DuplicateMonth() {
	ctx := context.Background()
	_, err := suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year: 2026, Month: 8,
	}, testActor)
	suite.Require().NoError(err)

	_, err = suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year: 2026, Month: 8, OpeningBalance: money("123"),
	}, testActor)
	suite.ErrorIs(err, services.ErrDuplicatePeriodBalance)
}

func (suite *CashBankServiceTestSuite) TestMovements_DraftsAndOtherAccountsExcluded() {
	ctx := context.Background()

	// Draft: never counts.
	suite.env.createEntry(suite.T(), suite.augDate(10), "Unposted inflow",
		debit("1-120", "9999"), credit("4-110", "9999"))
	// Posted but touching no cash/bank account.
	suite.env.postEntry(suite.T(), suite.augDate(11), "Accrued expense",
		debit("6-110", "500"), credit("2-110", "500"))

	balance, err := suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year: 2026, Month: 8,
	}, testActor)

	suite.Require().NoError(err)
	suite.True(balance.TotalInflow.IsZero())
	suite.True(balance.TotalOutflow.IsZero())
	suite.True(balance.ClosingBalance.IsZero())
}

func (suite *CashBankServiceTestSuite) TestRecalculateBalance_ChainsFromPreviousMonth() {
	ctx := context.Background()
	suite.env.openMonth(suite.T(), 2026, time.September)
	suite.postAugustMovements()

	august, err := suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year: 2026, Month: 8, OpeningBalance: money("50000000"),
	}, testActor)
	suite.Require().NoError(err)
	suite.True(august.ClosingBalance.Equal(money("75000000")))

	// September starts with a stale opening balance on purpose.
	september, err := suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year: 2026, Month: 9, OpeningBalance: money("1"),
	}, testActor)
	suite.Require().NoError(err)

	suite.env.postEntry(suite.T(), time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC),
		"September receipt", debit("1-120", "15000000"), credit("4-110", "15000000"))

	recalced, err := suite.env.svc.CashBank.RecalculateBalance(ctx, september.BalanceID, testActor)
	suite.Require().NoError(err)
	suite.True(recalced.OpeningBalance.Equal(money("75000000")))
	suite.True(recalced.TotalInflow.Equal(money("15000000")))
	suite.True(recalced.ClosingBalance.Equal(money("90000000")))
}

func (suite *CashBankServiceTestSuite) TestRecalculateBalance_NoPredecessorZeroesOpening() {
	ctx := context.Background()
	balance, err := suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year: 2026, Month: 8, OpeningBalance: money("42"),
	}, testActor)
	suite.Require().NoError(err)

	recalced, err := suite.env.svc.CashBank.RecalculateBalance(ctx, balance.BalanceID, testActor)
	suite.Require().NoError(err)
	suite.True(recalced.OpeningBalance.IsZero())
}

func (suite *CashBankServiceTestSuite) TestUpdateBalance_RecomputesDerivedFields() {
	ctx := context.Background()
	suite.postAugustMovements()

	balance, err := suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year: 2026, Month: 8,
	}, testActor)
	suite.Require().NoError(err)

	opening := money("10000000")
	notes := "Adjusted after bank statement review"
	updated, err := suite.env.svc.CashBank.UpdateBalance(ctx, balance.BalanceID, dto.UpdateCashBankBalanceRequest{
		OpeningBalance: &opening,
		Notes:          &notes,
	}, testActor)

	suite.Require().NoError(err)
	suite.True(updated.OpeningBalance.Equal(opening))
	suite.Equal(notes, updated.Notes)
	suite.True(updated.ClosingBalance.Equal(money("35000000")))
}

func (suite *CashBankServiceTestSuite) TestDeleteBalance() {
	ctx := context.Background()
	balance, err := suite.env.svc.CashBank.CreateBalance(ctx, dto.CreateCashBankBalanceRequest{
		Year: 2026, Month: 8,
	}, testActor)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.env.svc.CashBank.DeleteBalance(ctx, balance.BalanceID, testActor))

	_, err = suite.env.svc.CashBank.GetBalanceByID(ctx, balance.BalanceID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestCashBankServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CashBankServiceTestSuite))
}

func TestPreviousMonth_JanuaryWrapsToPriorDecember(t *testing.T) {
	balance := domain.CashBankBalance{Year: 2026, Month: 1}
	year, month := balance.PreviousMonth()
	assert.Equal(t, 2025, year)
	assert.Equal(t, 12, month)
}
