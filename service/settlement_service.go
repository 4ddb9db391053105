package service

import (
	"context"
	"fmt"
	"time"

	"casinobot/config"
	"casinobot/events"
	"casinobot/models"

	log "github.com/sirupsen/logrus"
)

// releaseTimeout bounds the compensating release that runs after a failed settlement
const releaseTimeout = 5 * time.Second

type settlementService struct {
	uowFactory UnitOfWorkFactory
	oracle     DrawOracle
	locks      *UserLocks
	config     *config.Config
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, oracle DrawOracle, locks *UserLocks, cfg *config.Config) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		oracle:     oracle,
		locks:      locks,
		config:     cfg,
	}
}

func (s *settlementService) Settle(ctx context.Context, discordID int64, game models.Game, wager int64) (*models.SettlementResult, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownGame, game)
	}
	if wager < s.config.MinBet || wager > s.config.MaxBet {
		return nil, fmt.Errorf("%w: must be between %d and %d, got %d", models.ErrBetOutOfRange, s.config.MinBet, s.config.MaxBet, wager)
	}

	unlock := s.locks.Lock(discordID)
	defer unlock()

	bet, err := s.reserve(ctx, discordID, game, wager)
	if err != nil {
		return nil, err
	}

	draw, err := s.draw(ctx, game)
	if err != nil {
		s.release(ctx, bet)
		return nil, fmt.Errorf("%w: %v", models.ErrDrawUnavailable, err)
	}

	if s.config.RevealDelay > 0 {
		select {
		case <-ctx.Done():
			s.release(ctx, bet)
			return nil, fmt.Errorf("settlement cancelled: %w", ctx.Err())
		case <-time.After(s.config.RevealDelay):
		}
	}

	outcome := ResolveOutcome(game, draw)
	payout := outcome.Payout(wager)

	result, err := s.commit(ctx, bet, draw, outcome, payout)
	if err != nil {
		s.release(ctx, bet)
		return nil, err
	}

	log.WithFields(log.Fields{
		"discordID":  discordID,
		"betID":      bet.ID,
		"game":       game,
		"draw":       draw,
		"wager":      wager,
		"payout":     payout,
		"newBalance": result.NewBalance,
	}).Info("Bet settled")

	return result, nil
}

// reserve holds the wager and records the bet in its own transaction
// so the stake is unavailable while the draw is in flight.
func (s *settlementService) reserve(ctx context.Context, discordID int64, game models.Game, wager int64) (*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Reserve(ctx, discordID, wager); err != nil {
		return nil, err
	}

	bet := &models.Bet{
		DiscordID: discordID,
		Game:      game,
		Amount:    wager,
		State:     models.BetStateReserved,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet record: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}
	return bet, nil
}

func (s *settlementService) draw(ctx context.Context, game models.Game) (int, error) {
	drawCtx, cancel := context.WithTimeout(ctx, s.config.DrawTimeout)
	defer cancel()

	draw, err := s.oracle.Draw(drawCtx, game)
	if err != nil {
		return 0, err
	}

	lo, hi := game.DrawRange()
	if draw < lo || draw > hi {
		return 0, fmt.Errorf("oracle returned %d outside %d..%d for %s", draw, lo, hi, game)
	}
	return draw, nil
}

func (s *settlementService) commit(ctx context.Context, bet *models.Bet, draw int, outcome models.Outcome, payout int64) (*models.SettlementResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.UserRepository().CommitReservation(ctx, bet.DiscordID, bet.Amount, payout)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payout: %w", err)
	}

	if err := uow.UserRepository().RecordOutcome(ctx, bet.DiscordID, bet.Amount, payout); err != nil {
		return nil, fmt.Errorf("failed to record outcome: %w", err)
	}

	net := payout - bet.Amount
	transactionType := models.TransactionTypeBetLoss
	switch {
	case net > 0:
		transactionType = models.TransactionTypeBetWin
	case outcome.Kind == models.OutcomePush:
		transactionType = models.TransactionTypeBetPush
	}

	history := &models.BalanceHistory{
		DiscordID:       bet.DiscordID,
		BalanceBefore:   newBalance - net,
		BalanceAfter:    newBalance,
		ChangeAmount:    net,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"game":       bet.Game,
			"draw":       draw,
			"bet_amount": bet.Amount,
			"payout":     payout,
			"multiplier": outcome.Multiplier.String(),
		},
		RelatedID:   &bet.ID,
		RelatedType: relatedType(models.RelatedTypeBet),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.BetRepository().MarkSettled(ctx, bet.ID, draw, payout, history.ID); err != nil {
		return nil, fmt.Errorf("failed to settle bet record: %w", err)
	}

	uow.EventBus().Publish(events.BetSettledEvent{
		UserID:  bet.DiscordID,
		BetID:   bet.ID,
		Game:    bet.Game,
		Draw:    draw,
		Amount:  bet.Amount,
		Payout:  payout,
		Outcome: outcome.Kind,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return &models.SettlementResult{
		BetID:      bet.ID,
		Game:       bet.Game,
		Draw:       draw,
		Wager:      bet.Amount,
		Payout:     payout,
		Outcome:    outcome,
		NewBalance: newBalance,
	}, nil
}

// release returns a reserved wager to the player. It runs on a detached
// context because the caller's context may already be cancelled.
func (s *settlementService) release(ctx context.Context, bet *models.Bet) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if _, err := s.releaseBet(releaseCtx, bet); err != nil {
		log.WithFields(log.Fields{
			"discordID": bet.DiscordID,
			"betID":     bet.ID,
			"amount":    bet.Amount,
		}).WithError(err).Error("Failed to release reservation, the sweeper will retry")
	}
}

// releaseBet reports whether the bet was still reserved and has now been released
func (s *settlementService) releaseBet(ctx context.Context, bet *models.Bet) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	released, err := uow.BetRepository().MarkReleased(ctx, bet.ID)
	if err != nil {
		return false, fmt.Errorf("failed to release bet record: %w", err)
	}
	if !released {
		return false, nil
	}

	if err := uow.UserRepository().Release(ctx, bet.DiscordID, bet.Amount); err != nil {
		return false, fmt.Errorf("failed to release reserved funds: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit release: %w", err)
	}

	log.WithFields(log.Fields{
		"discordID": bet.DiscordID,
		"betID":     bet.ID,
		"amount":    bet.Amount,
	}).Info("Reservation released")
	return true, nil
}

func (s *settlementService) ReleaseStaleReservations(ctx context.Context, olderThan time.Duration) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	bets, err := uow.BetRepository().GetReservedBefore(ctx, time.Now().Add(-olderThan))
	uow.Rollback()
	if err != nil {
		return 0, fmt.Errorf("failed to find stale reservations: %w", err)
	}

	released := 0
	for _, bet := range bets {
		unlock := s.locks.Lock(bet.DiscordID)
		ok, err := s.releaseBet(ctx, bet)
		unlock()
		if err != nil {
			return released, err
		}
		if ok {
			released++
		}
	}
	return released, nil
}

func (s *settlementService) GetBetStats(ctx context.Context, discordID int64) (*models.BetStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stats, err := uow.BetRepository().GetStats(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet stats: %w", err)
	}
	return stats, nil
}
