package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	"github.com/arkastudio/studio_ledger/internal/dto"
)

type DepreciationServiceTestSuite struct {
	suite.Suite
	env        *testEnv
	periodDate time.Time
}

func (suite *DepreciationServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.env.openMonth(suite.T(), 2026, time.August)
	suite.periodDate = time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
}

func (suite *DepreciationServiceTestSuite) saveAsset(asset domain.FixedAsset) domain.FixedAsset {
	if asset.AssetID == "" {
		asset.AssetID = uuid.NewString()
	}
	asset.IsActive = true
	asset.AuditFields = domain.NewAuditFields(testActor, time.Now().UTC())
	suite.Require().NoError(suite.env.repos.AssetRepo.SaveAsset(context.Background(), asset))
	return asset
}

func (suite *DepreciationServiceTestSuite) TestStraightLine_FullLifeThenStops() {
	ctx := context.Background()
	asset := suite.saveAsset(domain.FixedAsset{
		Name:              "Camera rig",
		Cost:              money("12000000"),
		SalvageValue:      decimal.Zero,
		UsefulLifePeriods: 12,
		Method:            domain.StraightLine,
		AcquiredAt:        time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	for i := 0; i < 12; i++ {
		result, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)
		suite.Require().NoError(err)
		suite.Equal(1, result.Processed, "run %d", i+1)
		suite.Require().Len(result.Details, 1)
		suite.True(result.Details[0].Amount.Equal(money("1000000")), "run %d amount %s", i+1, result.Details[0].Amount)
	}

	stored, err := suite.env.repos.AssetRepo.FindAssetByID(ctx, asset.AssetID)
	suite.Require().NoError(err)
	suite.True(stored.AccumulatedDepreciation.Equal(money("12000000")))
	suite.True(stored.NetBookValue().IsZero())

	// A fully depreciated asset is skipped, not charged again.
	result, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)
	suite.Require().NoError(err)
	suite.Equal(0, result.Processed)
	suite.Equal(1, result.Skipped)
	suite.True(result.Details[0].Skipped)
}

func (suite *DepreciationServiceTestSuite) TestStraightLine_ClampsAtSalvageFloor() {
	ctx := context.Background()
	suite.saveAsset(domain.FixedAsset{
		Name:                    "Editing workstation",
		Cost:                    money("1200"),
		SalvageValue:            decimal.Zero,
		UsefulLifePeriods:       12,
		Method:                  domain.StraightLine,
		AccumulatedDepreciation: money("1150"),
		AcquiredAt:              time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	result, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)
	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.True(result.Details[0].Amount.Equal(money("50")), "got %s", result.Details[0].Amount)
	suite.True(result.Details[0].NetBookValue.IsZero())
}

func (suite *DepreciationServiceTestSuite) TestDecliningBalance() {
	ctx := context.Background()
	asset := suite.saveAsset(domain.FixedAsset{
		Name:       "Delivery van",
		Cost:       money("1000000"),
		Method:     domain.DecliningBalance,
		Rate:       money("0.2"),
		AcquiredAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	first, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)
	suite.Require().NoError(err)
	suite.True(first.Details[0].Amount.Equal(money("200000")))

	// The second charge applies the rate to the reduced book value.
	second, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)
	suite.Require().NoError(err)
	suite.True(second.Details[0].Amount.Equal(money("160000")))

	stored, err := suite.env.repos.AssetRepo.FindAssetByID(ctx, asset.AssetID)
	suite.Require().NoError(err)
	suite.True(stored.NetBookValue().Equal(money("640000")))
}

func (suite *DepreciationServiceTestSuite) TestUnitsOfProduction() {
	ctx := context.Background()
	suite.saveAsset(domain.FixedAsset{
		Name:          "Printing press",
		Cost:          money("500000"),
		Method:        domain.UnitsOfProduction,
		Rate:          money("2.50"), // per unit
		UnitsConsumed: money("1200"),
		AcquiredAt:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	result, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)
	suite.Require().NoError(err)
	suite.True(result.Details[0].Amount.Equal(money("3000")))
}

func (suite *DepreciationServiceTestSuite) TestAutoPost() {
	ctx := context.Background()
	suite.saveAsset(domain.FixedAsset{
		Name:              "Camera rig",
		Cost:              money("12000000"),
		UsefulLifePeriods: 12,
		Method:            domain.StraightLine,
		AcquiredAt:        time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	result, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, true, testActor)
	suite.Require().NoError(err)
	suite.Equal(1, result.Posted)

	entry, err := suite.env.svc.Journal.GetEntryByID(ctx, result.Details[0].EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal(domain.SourceDepreciation, entry.SourceType)
	suite.Equal("6-210", entry.Lines[0].AccountCode)
	suite.Equal("1-390", entry.Lines[1].AccountCode)
	suite.True(entry.Lines[0].Debit.Equal(money("1000000")))
	suite.True(entry.Lines[1].Credit.Equal(money("1000000")))
}

func (suite *DepreciationServiceTestSuite) TestPerAssetAccountOverrides() {
	ctx := context.Background()
	_, err := suite.env.svc.Account.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:        "6-220",
		Name:        "Vehicle Depreciation Expense",
		AccountType: domain.Expense,
	}, testActor)
	suite.Require().NoError(err)

	suite.saveAsset(domain.FixedAsset{
		Name:               "Delivery van",
		Cost:               money("1000000"),
		Method:             domain.DecliningBalance,
		Rate:               money("0.2"),
		ExpenseAccountCode: "6-220",
		AcquiredAt:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	result, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)
	suite.Require().NoError(err)

	entry, err := suite.env.svc.Journal.GetEntryByID(ctx, result.Details[0].EntryID)
	suite.Require().NoError(err)
	suite.Equal("6-220", entry.Lines[0].AccountCode)
	suite.Equal("1-390", entry.Lines[1].AccountCode)
}

func (suite *DepreciationServiceTestSuite) TestInactiveAssetsExcluded() {
	ctx := context.Background()
	inactive := domain.FixedAsset{
		AssetID:           uuid.NewString(),
		Name:              "Retired printer",
		Cost:              money("100000"),
		UsefulLifePeriods: 12,
		Method:            domain.StraightLine,
		IsActive:          false,
		AcquiredAt:        time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		AuditFields:       domain.NewAuditFields(testActor, time.Now().UTC()),
	}
	suite.Require().NoError(suite.env.repos.AssetRepo.SaveAsset(ctx, inactive))

	result, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)
	suite.Require().NoError(err)
	suite.Empty(result.Details)
}

func (suite *DepreciationServiceTestSuite) TestMisconfiguredAssetDoesNotAbortRun() {
	ctx := context.Background()
	// AssetID ordering puts the broken asset first.
	suite.saveAsset(domain.FixedAsset{
		AssetID:           "a-broken",
		Name:              "No useful life",
		Cost:              money("100000"),
		UsefulLifePeriods: 0,
		Method:            domain.StraightLine,
		AcquiredAt:        time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.saveAsset(domain.FixedAsset{
		AssetID:           "b-healthy",
		Name:              "Camera rig",
		Cost:              money("12000000"),
		UsefulLifePeriods: 12,
		Method:            domain.StraightLine,
		AcquiredAt:        time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	result, err := suite.env.svc.Depreciation.ProcessMonthly(ctx, suite.periodDate, false, testActor)

	suite.Require().NoError(err)
	suite.Equal(1, result.Failed)
	suite.Equal(1, result.Processed)
	suite.Require().Len(result.Details, 2)
	suite.NotEmpty(result.Details[0].Error)
	suite.True(result.Details[1].Amount.Equal(money("1000000")))
}

func TestDepreciationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DepreciationServiceTestSuite))
}
