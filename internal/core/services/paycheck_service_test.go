package services_test

import (
	"context"
	"testing"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// --- Test Suite ---
type PaycheckServiceTestSuite struct {
	suite.Suite
	mockPaycheckRepo *MockPaycheckRepository
	service          portssvc.PaycheckSvcFacade
}

func (suite *PaycheckServiceTestSuite) SetupTest() {
	suite.mockPaycheckRepo = new(MockPaycheckRepository)
	suite.service = services.NewPaycheckService(suite.mockPaycheckRepo)
}

// --- ComputeIncomeMeans Tests ---

func (suite *PaycheckServiceTestSuite) TestComputeIncomeMeans_Success() {
	ctx := context.Background()
	paychecks := []domain.Paycheck{
		{Username: "alice", Pay1: decPtr("1000"), Pay2: decPtr("1100"), Pay3: decPtr("900")},
		{Username: "bob", Pay1: decPtr("3000"), Pay2: decPtr("3000"), Pay3: decPtr("3000")},
	}
	suite.mockPaycheckRepo.On("ListPaychecks", ctx).Return(paychecks, nil).Once()

	means, err := suite.service.ComputeIncomeMeans(ctx)

	suite.Require().NoError(err)
	suite.Len(means, 2)
	suite.True(means["alice"].Equal(dec("1000")))
	suite.True(means["bob"].Equal(dec("3000")))
	suite.mockPaycheckRepo.AssertExpectations(suite.T())
}

func (suite *PaycheckServiceTestSuite) TestComputeIncomeMeans_SkipsMissingAmounts() {
	ctx := context.Background()
	// Missing amounts shrink the divisor instead of counting as zero.
	paychecks := []domain.Paycheck{
		{Username: "alice", Pay1: decPtr("1200"), Pay2: nil, Pay3: decPtr("1000")},
	}
	suite.mockPaycheckRepo.On("ListPaychecks", ctx).Return(paychecks, nil).Once()

	means, err := suite.service.ComputeIncomeMeans(ctx)

	suite.Require().NoError(err)
	suite.True(means["alice"].Equal(dec("1100")))
}

func (suite *PaycheckServiceTestSuite) TestComputeIncomeMeans_ExcludesUnusableRecords() {
	ctx := context.Background()
	paychecks := []domain.Paycheck{
		{Username: "", Pay1: decPtr("5000")},
		{Username: "ghost"}, // no numeric paychecks at all
		{Username: "alice", Pay1: decPtr("1000")},
	}
	suite.mockPaycheckRepo.On("ListPaychecks", ctx).Return(paychecks, nil).Once()

	means, err := suite.service.ComputeIncomeMeans(ctx)

	suite.Require().NoError(err)
	suite.Len(means, 1)
	suite.True(means["alice"].Equal(dec("1000")))
}

func (suite *PaycheckServiceTestSuite) TestComputeIncomeMeans_EmptyStore() {
	ctx := context.Background()
	suite.mockPaycheckRepo.On("ListPaychecks", ctx).Return([]domain.Paycheck{}, nil).Once()

	means, err := suite.service.ComputeIncomeMeans(ctx)

	suite.Require().NoError(err)
	suite.Empty(means)
}

func (suite *PaycheckServiceTestSuite) TestComputeIncomeMeans_RepoError() {
	ctx := context.Background()
	suite.mockPaycheckRepo.On("ListPaychecks", ctx).Return(nil, assert.AnError).Once()

	means, err := suite.service.ComputeIncomeMeans(ctx)

	suite.Require().Error(err)
	suite.Nil(means)
	suite.ErrorIs(err, assert.AnError)
}

// --- UpsertPaycheck Tests ---

func (suite *PaycheckServiceTestSuite) TestUpsertPaycheck_ComputesAverage() {
	ctx := context.Background()
	suite.mockPaycheckRepo.On("UpsertPaycheck", ctx, mock.MatchedBy(func(p domain.Paycheck) bool {
		return p.Username == "alice" && p.Average != nil && p.Average.Equal(dec("2000"))
	})).Return(nil).Once()

	paycheck, err := suite.service.UpsertPaycheck(ctx, "alice", dec("1800"), dec("2000"), dec("2200"))

	suite.Require().NoError(err)
	suite.Require().NotNil(paycheck)
	suite.Equal("alice", paycheck.Username)
	suite.Require().NotNil(paycheck.Average)
	suite.True(paycheck.Average.Equal(dec("2000")))
	suite.mockPaycheckRepo.AssertExpectations(suite.T())
}

func (suite *PaycheckServiceTestSuite) TestUpsertPaycheck_EmptyUsername() {
	ctx := context.Background()

	paycheck, err := suite.service.UpsertPaycheck(ctx, "", dec("1"), dec("2"), dec("3"))

	suite.Require().Error(err)
	suite.Nil(paycheck)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaycheckRepo.AssertNotCalled(suite.T(), "UpsertPaycheck")
}

func (suite *PaycheckServiceTestSuite) TestUpsertPaycheck_RepoError() {
	ctx := context.Background()
	suite.mockPaycheckRepo.On("UpsertPaycheck", ctx, mock.AnythingOfType("domain.Paycheck")).Return(assert.AnError).Once()

	paycheck, err := suite.service.UpsertPaycheck(ctx, "alice", dec("1"), dec("2"), dec("3"))

	suite.Require().Error(err)
	suite.Nil(paycheck)
	suite.ErrorIs(err, assert.AnError)
}

// --- GetPaycheck Tests ---

func (suite *PaycheckServiceTestSuite) TestGetPaycheck_Success() {
	ctx := context.Background()
	expected := &domain.Paycheck{Username: "bob", Pay1: decPtr("3000")}
	suite.mockPaycheckRepo.On("FindPaycheckByUsername", ctx, "bob").Return(expected, nil).Once()

	paycheck, err := suite.service.GetPaycheck(ctx, "bob")

	suite.Require().NoError(err)
	suite.Equal(expected, paycheck)
}

func (suite *PaycheckServiceTestSuite) TestGetPaycheck_NotFound() {
	ctx := context.Background()
	suite.mockPaycheckRepo.On("FindPaycheckByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	paycheck, err := suite.service.GetPaycheck(ctx, "ghost")

	suite.Require().Error(err)
	suite.Nil(paycheck)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPaycheckServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaycheckServiceTestSuite))
}
