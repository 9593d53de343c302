package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/core/services"
	"github.com/hearthsplit/household_manager_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var testUsers = map[string]string{
	"alice": "Alice",
	"bob":   "Bob",
	"uma":   "Uma",
}

func testMeans() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"alice": dec("1000"),
		"bob":   dec("3000"),
		"uma":   dec("2000"),
	}
}

// --- Test Suite ---
type ExpenseServiceTestSuite struct {
	suite.Suite
	mockIncome   *MockIncomeReader
	mockDebtRepo *MockDebtRepository
	mockReceipts *MockReceiptStore
	notifier     *RecordingNotifier
	service      portssvc.ExpenseSvcFacade
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockIncome = new(MockIncomeReader)
	suite.mockDebtRepo = new(MockDebtRepository)
	suite.mockReceipts = new(MockReceiptStore)
	suite.notifier = new(RecordingNotifier)
	suite.service = services.NewExpenseService(suite.mockIncome, suite.mockDebtRepo, suite.mockReceipts, suite.notifier, testUsers)
}

// --- CreateExpense Tests ---

func (suite *ExpenseServiceTestSuite) TestCreateExpense_RelativeOthers() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()

	var saved []domain.DebtItem
	suite.mockDebtRepo.SaveDebtsFn = func(_ context.Context, debts []domain.DebtItem) error {
		saved = debts
		return nil
	}

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeOthers,
	})

	suite.Require().NoError(err)
	suite.Require().Len(debts, 2)
	suite.Equal(saved, debts)

	// Uploader income is out of the denominator: 400 * 1000/4000 and 400 * 3000/4000.
	suite.Equal("alice", debts[0].Debtor)
	suite.True(debts[0].AmountOwed.Equal(dec("100")), "alice owes %s", debts[0].AmountOwed)
	suite.Equal("bob", debts[1].Debtor)
	suite.True(debts[1].AmountOwed.Equal(dec("300")), "bob owes %s", debts[1].AmountOwed)

	for _, debt := range debts {
		suite.Equal("uma", debt.Uploader)
		suite.Equal(debts[0].PurchaseID, debt.PurchaseID)
		suite.True(debt.AmountTotal.Equal(dec("400")))
		suite.Equal(domain.ShareRelativeOthers, debt.ShareType)
		suite.False(debt.Paid)
		suite.NotEmpty(debt.DebtID)
	}
	suite.NotEqual(debts[0].DebtID, debts[1].DebtID)

	events := suite.notifier.Recorded()
	suite.Require().Len(events, 1)
	suite.Equal(domain.EventExpenseCreated, events[0].Kind)
	suite.ElementsMatch([]string{"alice", "bob"}, events[0].Participants)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_RelativeAllKeepsUploaderInDenominator() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()
	suite.mockDebtRepo.On("SaveDebts", ctx, mock.AnythingOfType("[]domain.DebtItem")).Return(nil).Once()

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "rent",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeAll,
	})

	suite.Require().NoError(err)
	suite.Require().Len(debts, 2)

	// Denominator is 6000 here, so shares shrink: 400*1000/6000 rounds to 66.67.
	suite.True(debts[0].AmountOwed.Equal(dec("66.67")), "alice owes %s", debts[0].AmountOwed)
	suite.True(debts[1].AmountOwed.Equal(dec("200")), "bob owes %s", debts[1].AmountOwed)

	// The uploader's implicit remainder keeps the debtor sum under the total.
	sum := debts[0].AmountOwed.Add(debts[1].AmountOwed)
	suite.True(sum.LessThan(dec("400")))
	suite.mockDebtRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_SelfCreatesNothing() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "coffee",
		AmountTotal: dec("5"),
		ShareType:   domain.ShareSelf,
	})

	suite.Require().NoError(err)
	suite.Nil(debts)
	suite.mockDebtRepo.AssertNotCalled(suite.T(), "SaveDebts")
	suite.Empty(suite.notifier.Recorded())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_ValidationFailures() {
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateExpenseRequest
	}{
		{"blank description", dto.CreateExpenseRequest{Description: "  ", AmountTotal: dec("10"), ShareType: domain.ShareRelativeAll}},
		{"zero amount", dto.CreateExpenseRequest{Description: "x", AmountTotal: decimal.Zero, ShareType: domain.ShareRelativeAll}},
		{"negative amount", dto.CreateExpenseRequest{Description: "x", AmountTotal: dec("-3"), ShareType: domain.ShareRelativeAll}},
		{"unknown share type", dto.CreateExpenseRequest{Description: "x", AmountTotal: dec("10"), ShareType: domain.ShareType("halvsies")}},
	}
	for _, tc := range cases {
		suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()

		debts, err := suite.service.CreateExpense(ctx, "uma", tc.req)

		suite.Require().Error(err, tc.name)
		suite.ErrorIs(err, apperrors.ErrValidation, tc.name)
		suite.Nil(debts, tc.name)
	}
	suite.mockDebtRepo.AssertNotCalled(suite.T(), "SaveDebts")
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NoIncomeData() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(map[string]decimal.Decimal{}, nil).Once()

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeAll,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoIncomeData)
	suite.Nil(debts)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NoParticipants() {
	ctx := context.Background()
	// Only the uploader has income data, so nobody is left to owe a share.
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(map[string]decimal.Decimal{
		"uma": dec("2000"),
	}, nil).Once()

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeAll,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoParticipants)
	suite.Nil(debts)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_InvalidIncome() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(map[string]decimal.Decimal{
		"alice": decimal.Zero,
		"uma":   decimal.Zero,
	}, nil).Once()

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeAll,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidIncome)
	suite.Nil(debts)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_IgnoresUsersOutsideRoster() {
	ctx := context.Background()
	means := testMeans()
	means["zed"] = dec("9000") // has income data but is not a configured user
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(means, nil).Once()
	suite.mockDebtRepo.On("SaveDebts", ctx, mock.AnythingOfType("[]domain.DebtItem")).Return(nil).Once()

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeOthers,
	})

	suite.Require().NoError(err)
	suite.Require().Len(debts, 2)
	for _, debt := range debts {
		suite.NotEqual("zed", debt.Debtor)
	}
	// And zed's income must not have inflated the denominator.
	suite.True(debts[0].AmountOwed.Equal(dec("100")))
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_ReceiptOnFirstRowOnly() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()
	suite.mockDebtRepo.On("SaveDebts", ctx, mock.AnythingOfType("[]domain.DebtItem")).Return(nil).Once()
	suite.mockReceipts.StoreFn = func(_ context.Context, name string, data []byte, mimeType string) (string, error) {
		suite.Contains(name, "receipt.jpg")
		suite.Equal("image/jpeg", mimeType)
		suite.Equal([]byte{0xff, 0xd8}, data)
		return "https://drive.example/receipt", nil
	}

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeOthers,
		ReceiptName: "receipt.jpg",
		ReceiptMIME: "image/jpeg",
		Receipt:     []byte{0xff, 0xd8},
	})

	suite.Require().NoError(err)
	suite.Require().Len(debts, 2)
	suite.Equal("https://drive.example/receipt", debts[0].ReceiptURL)
	suite.Empty(debts[1].ReceiptURL)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_ReceiptUploadFailureIsTolerated() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()
	suite.mockDebtRepo.On("SaveDebts", ctx, mock.AnythingOfType("[]domain.DebtItem")).Return(nil).Once()
	suite.mockReceipts.StoreFn = func(_ context.Context, _ string, _ []byte, _ string) (string, error) {
		return "", assert.AnError
	}

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeOthers,
		ReceiptName: "receipt.jpg",
		Receipt:     []byte{0x01},
	})

	suite.Require().NoError(err)
	suite.Require().Len(debts, 2)
	suite.Empty(debts[0].ReceiptURL)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_SaveErrorPropagates() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()
	suite.mockDebtRepo.On("SaveDebts", ctx, mock.AnythingOfType("[]domain.DebtItem")).Return(assert.AnError).Once()

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeOthers,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	suite.Nil(debts)
	suite.Empty(suite.notifier.Recorded())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NotifierFailureDoesNotFailOperation() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()
	suite.mockDebtRepo.On("SaveDebts", ctx, mock.AnythingOfType("[]domain.DebtItem")).Return(nil).Once()
	suite.notifier.Err = assert.AnError

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeOthers,
	})

	suite.Require().NoError(err)
	suite.Len(debts, 2)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NotifierPanicIsSwallowed() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()
	suite.mockDebtRepo.On("SaveDebts", ctx, mock.AnythingOfType("[]domain.DebtItem")).Return(nil).Once()
	suite.notifier.Panics = true

	debts, err := suite.service.CreateExpense(ctx, "uma", dto.CreateExpenseRequest{
		Description: "groceries",
		AmountTotal: dec("400"),
		ShareType:   domain.ShareRelativeOthers,
	})

	suite.Require().NoError(err)
	suite.Len(debts, 2)
}

// --- CreateExpenses Tests ---

func (suite *ExpenseServiceTestSuite) TestCreateExpenses_SingleWriteAndMeansSnapshot() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()

	var saved [][]domain.DebtItem
	suite.mockDebtRepo.SaveDebtsFn = func(_ context.Context, debts []domain.DebtItem) error {
		saved = append(saved, debts)
		return nil
	}

	debts, err := suite.service.CreateExpenses(ctx, "uma", dto.CreateExpensesRequest{
		ShareType: domain.ShareRelativeOthers,
		Expenses: []dto.BatchExpenseItem{
			{Description: "groceries", AmountTotal: dec("400")},
			{Description: "internet", AmountTotal: dec("80")},
		},
	})

	suite.Require().NoError(err)
	suite.Require().Len(debts, 4)
	suite.Require().Len(saved, 1, "batch must be persisted in one write")
	suite.mockIncome.AssertNumberOfCalls(suite.T(), "ComputeIncomeMeans", 1)

	// Each expense forms its own purchase group.
	suite.Equal(debts[0].PurchaseID, debts[1].PurchaseID)
	suite.Equal(debts[2].PurchaseID, debts[3].PurchaseID)
	suite.NotEqual(debts[0].PurchaseID, debts[2].PurchaseID)

	// 80 * 1000/4000 = 20, 80 * 3000/4000 = 60.
	suite.True(debts[2].AmountOwed.Equal(dec("20")))
	suite.True(debts[3].AmountOwed.Equal(dec("60")))

	suite.Len(suite.notifier.Recorded(), 2, "one notification per expense group")
}

func (suite *ExpenseServiceTestSuite) TestCreateExpenses_AnyInvalidItemFailsWholeBatch() {
	ctx := context.Background()
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()

	debts, err := suite.service.CreateExpenses(ctx, "uma", dto.CreateExpensesRequest{
		ShareType: domain.ShareRelativeOthers,
		Expenses: []dto.BatchExpenseItem{
			{Description: "groceries", AmountTotal: dec("400")},
			{Description: "", AmountTotal: dec("80")},
		},
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(debts)
	suite.mockDebtRepo.AssertNotCalled(suite.T(), "SaveDebts")
	suite.Empty(suite.notifier.Recorded())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpenses_EmptyBatch() {
	ctx := context.Background()

	debts, err := suite.service.CreateExpenses(ctx, "uma", dto.CreateExpensesRequest{ShareType: domain.ShareRelativeAll})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(debts)
}

// --- Listing and Summary Tests ---

func (suite *ExpenseServiceTestSuite) TestListDebtsForUser_FiltersAndSorts() {
	ctx := context.Background()
	now := time.Now().UTC()
	all := []domain.DebtItem{
		{DebtID: "d1", Debtor: "alice", Uploader: "uma", CreatedAt: now.Add(-2 * time.Hour), AmountOwed: dec("10")},
		{DebtID: "d2", Debtor: "alice", Uploader: "uma", CreatedAt: now.Add(-1 * time.Hour), AmountOwed: dec("20")},
		{DebtID: "d3", Debtor: "alice", Uploader: "uma", CreatedAt: now, AmountOwed: dec("30"), Paid: true},
		{DebtID: "d4", Debtor: "bob", Uploader: "uma", CreatedAt: now, AmountOwed: dec("40")},
	}
	suite.mockDebtRepo.On("ListDebts", ctx).Return(all, nil).Once()

	debts, err := suite.service.ListDebtsForUser(ctx, "alice")

	suite.Require().NoError(err)
	suite.Require().Len(debts, 2)
	suite.Equal("d2", debts[0].DebtID, "newest unpaid debt first")
	suite.Equal("d1", debts[1].DebtID)
}

func (suite *ExpenseServiceTestSuite) TestSummary() {
	ctx := context.Background()
	now := time.Now().UTC()
	all := []domain.DebtItem{
		{DebtID: "d1", Debtor: "alice", Uploader: "uma", CreatedAt: now, AmountOwed: dec("66.67")},
		{DebtID: "d2", Debtor: "alice", Uploader: "bob", CreatedAt: now, AmountOwed: dec("12")},
		{DebtID: "d3", Debtor: "bob", Uploader: "alice", CreatedAt: now, AmountOwed: dec("40")},
		{DebtID: "d4", Debtor: "uma", Uploader: "alice", CreatedAt: now, AmountOwed: dec("5"), Paid: true},
	}
	suite.mockIncome.On("ComputeIncomeMeans", ctx).Return(testMeans(), nil).Once()
	suite.mockDebtRepo.On("ListDebts", ctx).Return(all, nil).Twice()

	summary, err := suite.service.Summary(ctx, "alice")

	suite.Require().NoError(err)
	suite.Equal("alice", summary.Username)
	suite.True(summary.IncomeMean.Equal(dec("1000")))
	suite.True(summary.TotalOwed.Equal(dec("78.67")))
	suite.True(summary.TotalOwedToMe.Equal(dec("40")))
	suite.Len(summary.Debts, 2)
	suite.Len(summary.Credits, 1)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
