package service

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// Test IDs
const (
	TestUser1ID   = 111111
	TestUser2ID   = 222222
	TestAdminID   = 999999
	TestBetID     = 77
	TestHistoryID = 501
)

// testMocks holds every mock a service test needs, wired into one unit of work
type testMocks struct {
	Factory        *MockUnitOfWorkFactory
	UoW            *MockUnitOfWork
	UserRepo       *MockUserRepository
	HistoryRepo    *MockBalanceHistoryRepository
	BetRepo        *MockBetRepository
	PaymentRepo    *MockPaymentRepository
	WithdrawalRepo *MockWithdrawalRepository
	Events         *MockEventPublisher
}

// newTestMocks creates the mocks with the factory and transaction lifecycle
// expectations every service test shares.
func newTestMocks() *testMocks {
	m := &testMocks{
		Factory:        new(MockUnitOfWorkFactory),
		UoW:            new(MockUnitOfWork),
		UserRepo:       new(MockUserRepository),
		HistoryRepo:    new(MockBalanceHistoryRepository),
		BetRepo:        new(MockBetRepository),
		PaymentRepo:    new(MockPaymentRepository),
		WithdrawalRepo: new(MockWithdrawalRepository),
		Events:         new(MockEventPublisher),
	}
	m.UoW.SetRepositories(m.UserRepo, m.HistoryRepo, m.BetRepo, m.PaymentRepo, m.WithdrawalRepo, m.Events)

	m.Factory.On("Create").Return(m.UoW)
	m.UoW.On("Begin", mock.Anything).Return(nil)
	m.UoW.On("Rollback").Return(nil).Maybe()
	return m
}

// expectCommit allows the unit of work to commit successfully
func (m *testMocks) expectCommit() {
	m.UoW.On("Commit").Return(nil)
}

// AssertAllExpectations asserts all mock expectations
func (m *testMocks) AssertAllExpectations(t *testing.T) {
	m.Factory.AssertExpectations(t)
	m.UoW.AssertExpectations(t)
	m.UserRepo.AssertExpectations(t)
	m.HistoryRepo.AssertExpectations(t)
	m.BetRepo.AssertExpectations(t)
	m.PaymentRepo.AssertExpectations(t)
	m.WithdrawalRepo.AssertExpectations(t)
	m.Events.AssertExpectations(t)
}
