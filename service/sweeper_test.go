package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"casinobot/config"
	"casinobot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubSettlement struct {
	mock.Mock
}

func (s *stubSettlement) Settle(ctx context.Context, discordID int64, game models.Game, wager int64) (*models.SettlementResult, error) {
	args := s.Called(ctx, discordID, game, wager)
	return nil, args.Error(1)
}

func (s *stubSettlement) ReleaseStaleReservations(ctx context.Context, olderThan time.Duration) (int, error) {
	args := s.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

func (s *stubSettlement) GetBetStats(ctx context.Context, discordID int64) (*models.BetStats, error) {
	args := s.Called(ctx, discordID)
	return nil, args.Error(1)
}

type stubPayments struct {
	mock.Mock
}

func (s *stubPayments) InitiateDeposit(ctx context.Context, discordID int64, amount int64) (*models.PaymentRequest, error) {
	args := s.Called(ctx, discordID, amount)
	return nil, args.Error(1)
}

func (s *stubPayments) ConfirmDeposit(ctx context.Context, discordID int64, reference string) (*models.DepositResult, error) {
	args := s.Called(ctx, discordID, reference)
	return nil, args.Error(1)
}

func (s *stubPayments) LatestOpenDeposit(ctx context.Context, discordID int64) (*models.PaymentRequest, error) {
	args := s.Called(ctx, discordID)
	return nil, args.Error(1)
}

func (s *stubPayments) ExpireStaleDeposits(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := s.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func TestSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewTestConfig()
	settlement := new(stubSettlement)
	payments := new(stubPayments)

	settlement.On("ReleaseStaleReservations", ctx, cfg.ReservationTTL).Return(2, nil)
	payments.On("ExpireStaleDeposits", ctx, cfg.DepositTTL).Return(int64(1), nil)

	NewSweeper(settlement, payments, cfg).SweepOnce(ctx)

	settlement.AssertExpectations(t)
	payments.AssertExpectations(t)
}

func TestSweeper_SweepOnceContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewTestConfig()
	settlement := new(stubSettlement)
	payments := new(stubPayments)

	settlement.On("ReleaseStaleReservations", ctx, cfg.ReservationTTL).Return(0, errors.New("database down"))
	payments.On("ExpireStaleDeposits", ctx, cfg.DepositTTL).Return(int64(0), nil)

	NewSweeper(settlement, payments, cfg).SweepOnce(ctx)

	payments.AssertExpectations(t)
}

func TestSweeper_StartRunsOnTicker(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.SweepInterval = 10 * time.Millisecond
	settlement := new(stubSettlement)
	payments := new(stubPayments)

	swept := make(chan struct{}, 10)
	settlement.On("ReleaseStaleReservations", mock.Anything, cfg.ReservationTTL).Return(0, nil)
	payments.On("ExpireStaleDeposits", mock.Anything, cfg.DepositTTL).Return(int64(0), nil).
		Run(func(args mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := NewSweeper(settlement, payments, cfg).Start(ctx)
	defer stop()

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		assert.Fail(t, "sweeper did not run")
	}
}
