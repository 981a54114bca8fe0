package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountMappingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountMappingRepository
	service  *services.AccountMappingService
	ctx      context.Context
}

func (suite *AccountMappingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountMappingRepository)
	suite.service = services.NewAccountMappingService(suite.mockRepo, domain.LedgerXRPL)
	suite.ctx = context.Background()
}

func (suite *AccountMappingServiceTestSuite) TestSaveMapping_NormalizesBankAccount() {
	req := dto.CreateAccountMappingRequest{BankAccount: "ch93 0076 2011 6238 5295 7", WalletAddress: "rWallet", PartyID: "Muster AG"}

	suite.mockRepo.On("SaveMapping", suite.ctx, mock.MatchedBy(func(m domain.AccountMapping) bool {
		return m.BankAccount.Unformatted == "CH9300762011623852957" && m.LedgerID == domain.LedgerXRPL && m.MappingID != ""
	})).Return(nil).Once()

	m, err := suite.service.SaveMapping(suite.ctx, req, "operator")

	suite.Require().NoError(err)
	suite.Equal("rWallet", m.WalletAddress)
	suite.Equal("operator", m.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountMappingServiceTestSuite) TestSaveMapping_EmptyBankAccount() {
	m, err := suite.service.SaveMapping(suite.ctx, dto.CreateAccountMappingRequest{BankAccount: "   ", WalletAddress: "rWallet"}, "operator")

	suite.Nil(m)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountMappingServiceTestSuite) TestFindWallet() {
	account := domain.NewBankAccount("DE89370400440532013000")
	suite.mockRepo.On("FindMappingByBankAccount", suite.ctx, domain.LedgerXRPL, account).
		Return(&domain.AccountMapping{BankAccount: account, WalletAddress: "rWallet"}, nil).Once()

	w, err := suite.service.FindWallet(suite.ctx, account)

	suite.Require().NoError(err)
	suite.Equal("rWallet", w.Address)
}

func (suite *AccountMappingServiceTestSuite) TestFindBankAccount_NotFound() {
	suite.mockRepo.On("FindMappingByWallet", suite.ctx, domain.LedgerXRPL, "rUnknown").Return(nil, apperrors.ErrNotFound).Once()

	a, err := suite.service.FindBankAccount(suite.ctx, domain.Wallet{Address: "rUnknown"})

	suite.Nil(a)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountMappingServiceTestSuite) TestDeleteMapping() {
	suite.mockRepo.On("DeleteMapping", suite.ctx, "id-1").Return(nil).Once()
	suite.mockRepo.On("DeleteMapping", suite.ctx, "id-2").Return(apperrors.ErrNotFound).Once()

	suite.NoError(suite.service.DeleteMapping(suite.ctx, "id-1"))
	suite.ErrorIs(suite.service.DeleteMapping(suite.ctx, "id-2"), apperrors.ErrNotFound)
}

func (suite *AccountMappingServiceTestSuite) TestListMappings() {
	suite.mockRepo.On("ListMappings", suite.ctx, 20, 0).Return(nil, nil).Once()
	suite.mockRepo.On("ListMappings", suite.ctx, 20, 20).Return(nil, assert.AnError).Once()

	ms, err := suite.service.ListMappings(suite.ctx, 20, 0)
	suite.Require().NoError(err)
	suite.NotNil(ms)

	_, err = suite.service.ListMappings(suite.ctx, 20, 20)
	suite.ErrorIs(err, assert.AnError)
}

func TestAccountMappingService(t *testing.T) {
	suite.Run(t, new(AccountMappingServiceTestSuite))
}
