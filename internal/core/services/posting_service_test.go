package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	"github.com/arkastudio/studio_ledger/internal/core/services"
	"github.com/arkastudio/studio_ledger/internal/utils/locking"
)

type PostingServiceTestSuite struct {
	suite.Suite
	env *testEnv
	// The current month is open so reversals, which are dated now, have a
	// period to land in.
	period    *domain.FiscalPeriod
	entryDate time.Time
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.period = suite.env.openCurrentMonth(suite.T())
	now := time.Now().UTC()
	suite.entryDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (suite *PostingServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry := suite.env.createEntry(suite.T(), suite.entryDate, "Cash sale",
		debit("1-110", "1000"), credit("4-110", "1000"))

	posted, err := suite.env.svc.Posting.PostEntry(ctx, entry.EntryID, testActor)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostingDate)
	suite.WithinDuration(time.Now(), *posted.PostingDate, time.Second)
	suite.Equal(testActor, posted.PostedBy)

	stored, err := suite.env.svc.Journal.GetEntryByID(ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, stored.Status)
}

func (suite *PostingServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.env.postEntry(suite.T(), suite.entryDate, "Once only",
		debit("1-110", "100"), credit("4-110", "100"))

	_, err := suite.env.svc.Posting.PostEntry(ctx, entry.EntryID, testActor)
	suite.ErrorIs(err, services.ErrImmutableEntry)
}

func (suite *PostingServiceTestSuite) TestPostEntry_ClosedPeriod() {
	ctx := context.Background()
	entry := suite.env.createEntry(suite.T(), suite.entryDate, "Late arrival",
		debit("1-110", "100"), credit("4-110", "100"))

	_, err := suite.env.svc.Period.ClosePeriod(ctx, suite.period.PeriodID, testActor)
	suite.Require().NoError(err)

	_, err = suite.env.svc.Posting.PostEntry(ctx, entry.EntryID, testActor)
	suite.ErrorIs(err, services.ErrPeriodClosed)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	original := suite.env.postEntry(suite.T(), suite.entryDate, "To be undone",
		debit("1-110", "750"), credit("4-110", "750"))

	reversal, err := suite.env.svc.Posting.ReverseEntry(ctx, original.EntryID, testActor)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, reversal.Status)
	suite.True(reversal.IsReversing)
	suite.Require().NotNil(reversal.ReversedEntryID)
	suite.Equal(original.EntryID, *reversal.ReversedEntryID)
	suite.NotEqual(original.EntryNumber, reversal.EntryNumber)

	// Sides are swapped line for line.
	suite.Require().Len(reversal.Lines, 2)
	suite.Equal("1-110", reversal.Lines[0].AccountCode)
	suite.True(reversal.Lines[0].Credit.Equal(money("750")))
	suite.True(reversal.Lines[0].Debit.IsZero())
	suite.Equal("4-110", reversal.Lines[1].AccountCode)
	suite.True(reversal.Lines[1].Debit.Equal(money("750")))

	// The original is untouched; only the reversal carries the linkage.
	stored, err := suite.env.svc.Journal.GetEntryByID(ctx, original.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, stored.Status)
	suite.False(stored.IsReversing)
	suite.Nil(stored.ReversedEntryID)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_NetBalancesUnchanged() {
	ctx := context.Background()
	original := suite.env.postEntry(suite.T(), suite.entryDate, "Round trip",
		debit("1-110", "1234.56"), credit("4-110", "1234.56"))

	_, err := suite.env.svc.Posting.ReverseEntry(ctx, original.EntryID, testActor)
	suite.Require().NoError(err)

	lines, err := suite.env.repos.JournalRepo.ListPostedLines(ctx, portsrepo.LineFilter{})
	suite.Require().NoError(err)

	net := make(map[string]decimal.Decimal)
	for _, l := range lines {
		net[l.AccountCode] = net[l.AccountCode].Add(l.Debit).Sub(l.Credit)
	}
	for code, balance := range net {
		suite.True(balance.IsZero(), "account %s nets to %s", code, balance)
	}
}

func (suite *PostingServiceTestSuite) TestReverseEntry_OnlyOnce() {
	ctx := context.Background()
	original := suite.env.postEntry(suite.T(), suite.entryDate, "Single undo",
		debit("1-110", "100"), credit("4-110", "100"))

	_, err := suite.env.svc.Posting.ReverseEntry(ctx, original.EntryID, testActor)
	suite.Require().NoError(err)

	_, err = suite.env.svc.Posting.ReverseEntry(ctx, original.EntryID, testActor)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	draft := suite.env.createEntry(suite.T(), suite.entryDate, "Never posted",
		debit("1-110", "100"), credit("4-110", "100"))

	_, err := suite.env.svc.Posting.ReverseEntry(ctx, draft.EntryID, testActor)
	suite.ErrorIs(err, services.ErrNotPosted)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_ReversalCanBeReversed() {
	ctx := context.Background()
	original := suite.env.postEntry(suite.T(), suite.entryDate, "Twice shifted",
		debit("1-110", "300"), credit("4-110", "300"))

	reversal, err := suite.env.svc.Posting.ReverseEntry(ctx, original.EntryID, testActor)
	suite.Require().NoError(err)

	// Reversing the reversal restores the original effect.
	second, err := suite.env.svc.Posting.ReverseEntry(ctx, reversal.EntryID, testActor)
	suite.Require().NoError(err)
	suite.True(second.Lines[0].Debit.Equal(money("300")))
	suite.Equal("1-110", second.Lines[0].AccountCode)
}

// flakyJournalRepo rejects posted-status writes for reversal entries while
// failReversals is set, passing everything else through to the real store.
type flakyJournalRepo struct {
	portsrepo.JournalRepository
	failReversals bool
}

func (r *flakyJournalRepo) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	if r.failReversals && entry.IsReversing {
		return fmt.Errorf("%w: store write rejected", apperrors.ErrInternal)
	}
	return r.JournalRepository.UpdateEntry(ctx, entry)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_FailedPostLeavesNoDraftBehind() {
	ctx := context.Background()
	original := suite.env.postEntry(suite.T(), suite.entryDate, "Survives a store outage",
		debit("1-110", "500"), credit("4-110", "500"))

	flaky := &flakyJournalRepo{JournalRepository: suite.env.repos.JournalRepo, failReversals: true}
	posting := services.NewPostingService(flaky, suite.env.repos.PeriodRepo, locking.NewKeyedMutex())

	_, err := posting.ReverseEntry(ctx, original.EntryID, testActor)
	suite.Require().Error(err)

	// The aborted attempt must not leave a draft reversal behind to block
	// the retry.
	_, err = suite.env.repos.JournalRepo.FindReversalOf(ctx, original.EntryID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	flaky.failReversals = false
	reversal, err := posting.ReverseEntry(ctx, original.EntryID, testActor)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, reversal.Status)
	suite.True(reversal.IsReversing)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

// MockFiscalPeriodRepository is a mock type for the FiscalPeriodRepository
// interface.
type MockFiscalPeriodRepository struct {
	mock.Mock
}

func (m *MockFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindPeriodByCode(ctx context.Context, code string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindPeriodForDate(ctx context.Context, d time.Time, t domain.PeriodType) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, d, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

// A period close must queue behind an in-flight posting into that period,
// never land between the posting's OPEN check and its status flip.
func TestClosePeriod_WaitsForInFlightPosting(t *testing.T) {
	mockJournal := new(MockJournalRepository)
	mockPeriods := new(MockFiscalPeriodRepository)
	locks := locking.NewKeyedMutex()
	posting := services.NewPostingService(mockJournal, mockPeriods, locks)
	periods := services.NewFiscalPeriodService(mockPeriods, locks)

	amount := decimal.RequireFromString("100")
	entry := &domain.JournalEntry{
		EntryID:        "e1",
		EntryNumber:    "JE-2026-00001",
		EntryDate:      time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		Status:         domain.Draft,
		FiscalPeriodID: "p1",
		Lines: []domain.JournalLine{
			{LineID: "l1", EntryID: "e1", AccountCode: "1-110", Debit: amount},
			{LineID: "l2", EntryID: "e1", AccountCode: "4-110", Credit: amount},
		},
	}
	period := &domain.FiscalPeriod{
		PeriodID:   "p1",
		Code:       "2026-08",
		PeriodType: domain.Monthly,
		StartDate:  time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		Status:     domain.PeriodOpen,
	}

	mockJournal.On("FindEntryByID", mock.Anything, "e1").Return(entry, nil)
	mockPeriods.On("FindPeriodByID", mock.Anything, "p1").Return(period, nil)
	mockPeriods.On("UpdatePeriod", mock.Anything, mock.AnythingOfType("domain.FiscalPeriod")).Return(nil)

	updateEntered := make(chan struct{})
	releaseUpdate := make(chan struct{})
	mockJournal.On("UpdateEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(mock.Arguments) {
			close(updateEntered)
			<-releaseUpdate
		}).
		Return(nil)

	postDone := make(chan error, 1)
	go func() {
		_, err := posting.PostEntry(context.Background(), "e1", testActor)
		postDone <- err
	}()
	<-updateEntered

	closeDone := make(chan error, 1)
	go func() {
		_, err := periods.ClosePeriod(context.Background(), "p1", testActor)
		closeDone <- err
	}()

	select {
	case <-closeDone:
		t.Fatal("period closed while a posting into it was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(releaseUpdate)
	require.NoError(t, <-postDone)
	require.NoError(t, <-closeDone)
	mockJournal.AssertExpectations(t)
	mockPeriods.AssertExpectations(t)
}
