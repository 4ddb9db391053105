package service

import (
	"context"
	"fmt"

	"casinobot/config"
	"casinobot/events"
	"casinobot/models"

	log "github.com/sirupsen/logrus"
)

type withdrawalService struct {
	uowFactory UnitOfWorkFactory
	locks      *UserLocks
	config     *config.Config
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(uowFactory UnitOfWorkFactory, locks *UserLocks, cfg *config.Config) WithdrawalService {
	return &withdrawalService{
		uowFactory: uowFactory,
		locks:      locks,
		config:     cfg,
	}
}

func (s *withdrawalService) RequestWithdrawal(ctx context.Context, discordID int64, amount int64) (*models.WithdrawalRequest, error) {
	if amount < s.config.MinWithdrawal {
		return nil, fmt.Errorf("%w: minimum is %d, got %d", models.ErrWithdrawalOutOfRange, s.config.MinWithdrawal, amount)
	}

	unlock := s.locks.Lock(discordID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %d", models.ErrUserNotFound, discordID)
	}

	newBalance, err := uow.UserRepository().DeductBalance(ctx, discordID, amount)
	if err != nil {
		return nil, err
	}

	request := &models.WithdrawalRequest{
		DiscordID: discordID,
		Amount:    amount,
		Status:    models.WithdrawalStatusPending,
	}
	if err := uow.WithdrawalRepository().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   newBalance + amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeWithdrawal,
		TransactionMetadata: map[string]any{
			"withdrawal_id": request.ID,
		},
		RelatedID:   &request.ID,
		RelatedType: relatedType(models.RelatedTypeWithdrawal),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawalRequestedEvent{
		WithdrawalID: request.ID,
		UserID:       discordID,
		Username:     user.DisplayName(),
		Amount:       amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"discordID":    discordID,
		"withdrawalID": request.ID,
		"amount":       amount,
		"newBalance":   newBalance,
	}).Info("Withdrawal requested")

	return request, nil
}

func (s *withdrawalService) CompleteWithdrawal(ctx context.Context, id int64, adminID int64) (*models.WithdrawalRequest, error) {
	return s.resolve(ctx, id, adminID, models.WithdrawalStatusCompleted)
}

func (s *withdrawalService) RejectWithdrawal(ctx context.Context, id int64, adminID int64) (*models.WithdrawalRequest, error) {
	return s.resolve(ctx, id, adminID, models.WithdrawalStatusRejected)
}

func (s *withdrawalService) resolve(ctx context.Context, id int64, adminID int64, status models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	request, err := s.getWithdrawal(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(request.DiscordID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.WithdrawalRepository().Resolve(ctx, id, status, adminID); err != nil {
		return nil, err
	}

	if status == models.WithdrawalStatusRejected {
		newBalance, err := uow.UserRepository().AddBalance(ctx, request.DiscordID, request.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to refund withdrawal: %w", err)
		}

		history := &models.BalanceHistory{
			DiscordID:       request.DiscordID,
			BalanceBefore:   newBalance - request.Amount,
			BalanceAfter:    newBalance,
			ChangeAmount:    request.Amount,
			TransactionType: models.TransactionTypeWithdrawalRefund,
			TransactionMetadata: map[string]any{
				"withdrawal_id": id,
				"resolved_by":   adminID,
			},
			RelatedID:   &request.ID,
			RelatedType: relatedType(models.RelatedTypeWithdrawal),
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record balance change: %w", err)
		}
	}

	uow.EventBus().Publish(events.WithdrawalResolvedEvent{
		WithdrawalID: id,
		UserID:       request.DiscordID,
		Amount:       request.Amount,
		Status:       status,
		ResolvedBy:   adminID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"withdrawalID": id,
		"discordID":    request.DiscordID,
		"amount":       request.Amount,
		"status":       status,
		"adminID":      adminID,
	}).Info("Withdrawal resolved")

	request.Status = status
	request.ResolvedBy = &adminID
	return request, nil
}

func (s *withdrawalService) getWithdrawal(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.WithdrawalRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	if request == nil {
		return nil, fmt.Errorf("%w: %d", models.ErrWithdrawalNotFound, id)
	}
	return request, nil
}

func (s *withdrawalService) PendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	requests, err := uow.WithdrawalRepository().GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending withdrawals: %w", err)
	}
	return requests, nil
}
