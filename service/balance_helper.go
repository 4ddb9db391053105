package service

import (
	"context"
	"fmt"

	"casinobot/events"
	"casinobot/models"
)

// RecordBalanceChange records a balance history entry and queues the matching event.
// Every balance mutation goes through here so history and events never diverge.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.DiscordID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	})

	return nil
}

func relatedType(t models.RelatedType) *models.RelatedType {
	return &t
}
