package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	"github.com/arkastudio/studio_ledger/internal/core/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepository interface.
// Only the reference check is exercised by the account service.
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListPostedLines(ctx context.Context, filter portsrepo.LineFilter) ([]domain.PostedLine, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostedLine), args.Error(1)
}

func (m *MockJournalRepository) HasPostedLinesForAccount(ctx context.Context, accountCode string) (bool, error) {
	args := m.Called(ctx, accountCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalRepository) NextEntrySequence(ctx context.Context, year int) (int, error) {
	args := m.Called(ctx, year)
	return args.Int(0), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockAccountRepository
	mockJournal *MockJournalRepository
	service     *services.AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockJournal = new(MockJournalRepository)
	suite.service = services.NewAccountService(suite.mockRepo, suite.mockJournal)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "6-900",
		Name:        "Marketing Expense",
		AccountType: domain.Expense,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, testActor)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(req.Code, created.Code)
	suite.Equal(req.Name, created.Name)
	suite.Equal(domain.DebitNormal, created.NormalBalance) // derived from EXPENSE
	suite.True(created.IsActive)
	suite.Equal(testActor, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "9-999",
		Name:        "Mystery",
		AccountType: domain.AccountType("SOMETHING_ELSE"),
	}

	created, err := suite.service.CreateAccount(ctx, req, testActor)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1-110",
		Name:        "Cash on Hand",
		AccountType: domain.Asset,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	created, err := suite.service.CreateAccount(ctx, req, testActor)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NormalBalanceMismatch() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:          "4-900",
		Name:          "Backwards Revenue",
		AccountType:   domain.Revenue,
		NormalBalance: domain.DebitNormal,
	}

	created, err := suite.service.CreateAccount(ctx, req, testActor)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrNormalBalanceMismatch)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ContraDivergenceAllowed() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:          "1-391",
		Name:          "Accumulated Amortization",
		AccountType:   domain.Asset,
		SubType:       "CONTRA_ASSET",
		NormalBalance: domain.CreditNormal,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, testActor)

	suite.Require().NoError(err)
	suite.Equal(domain.CreditNormal, created.NormalBalance)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentNotFound() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1-115",
		Name:        "Petty Cash",
		AccountType: domain.Asset,
		ParentCode:  "1-100",
	}

	suite.mockRepo.On("FindAccountByCode", ctx, "1-100").Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.CreateAccount(ctx, req, testActor)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSetAccountActive_SystemAccountProtected() {
	ctx := context.Background()
	system := &domain.Account{
		Code:            "1-110",
		Name:            "Cash on Hand",
		AccountType:     domain.Asset,
		NormalBalance:   domain.DebitNormal,
		IsActive:        true,
		IsSystemAccount: true,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, "1-110").Return(system, nil).Once()

	updated, err := suite.service.SetAccountActive(ctx, "1-110", false, testActor)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, services.ErrProtectedAccount)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestToggleAccountActive_Flips() {
	ctx := context.Background()
	account := &domain.Account{
		Code:          "6-900",
		Name:          "Marketing Expense",
		AccountType:   domain.Expense,
		NormalBalance: domain.DebitNormal,
		IsActive:      true,
	}

	// Toggle reads the account, then SetAccountActive reads it again.
	suite.mockRepo.On("FindAccountByCode", ctx, "6-900").Return(account, nil).Twice()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "6-900" && !a.IsActive
	})).Return(nil).Once()

	updated, err := suite.service.ToggleAccountActive(ctx, "6-900", testActor)

	suite.Require().NoError(err)
	suite.False(updated.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_SystemAccountProtected() {
	ctx := context.Background()
	system := &domain.Account{Code: "3-110", AccountType: domain.Equity, IsSystemAccount: true}

	suite.mockRepo.On("FindAccountByCode", ctx, "3-110").Return(system, nil).Once()

	err := suite.service.DeleteAccount(ctx, "3-110", testActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrProtectedAccount)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_ReferencedByPostedLines() {
	ctx := context.Background()
	account := &domain.Account{Code: "6-900", AccountType: domain.Expense, IsActive: true}

	suite.mockRepo.On("FindAccountByCode", ctx, "6-900").Return(account, nil).Once()
	suite.mockJournal.On("HasPostedLinesForAccount", ctx, "6-900").Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, "6-900", testActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInUse)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	account := &domain.Account{Code: "6-900", AccountType: domain.Expense, IsActive: true}

	suite.mockRepo.On("FindAccountByCode", ctx, "6-900").Return(account, nil).Once()
	suite.mockJournal.On("HasPostedLinesForAccount", ctx, "6-900").Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, "6-900").Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, "6-900", testActor)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockJournal.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func TestSeedDefaultChart(t *testing.T) {
	env := newTestEnv(t)

	// Seeding again is a no-op thanks to duplicate skipping.
	created, err := env.svc.Account.SeedDefaultChart(context.Background(), testActor)
	assert.NoError(t, err)
	assert.Zero(t, created)

	accounts, err := env.svc.Account.ListAccounts(context.Background(), portsrepo.AccountFilter{})
	assert.NoError(t, err)
	assert.Len(t, accounts, 15)

	cash, err := env.svc.Account.GetAccountByCode(context.Background(), "1-110")
	assert.NoError(t, err)
	assert.True(t, cash.IsSystemAccount)
	assert.Equal(t, domain.DebitNormal, cash.NormalBalance)

	allowance, err := env.svc.Account.GetAccountByCode(context.Background(), "1-290")
	assert.NoError(t, err)
	assert.Equal(t, domain.CreditNormal, allowance.NormalBalance)
	assert.True(t, allowance.IsContra())
}
