package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"casinobot/events"
	"casinobot/models"

	log "github.com/sirupsen/logrus"
)

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,15}$`)

type userService struct {
	uowFactory UnitOfWorkFactory
	locks      *UserLocks
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, locks *UserLocks) UserService {
	return &userService{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

func (s *userService) EnsureUser(ctx context.Context, discordID int64, username string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, created, err := uow.UserRepository().Upsert(ctx, discordID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if created {
		uow.EventBus().Publish(events.UserCreatedEvent{
			DiscordID: discordID,
			Username:  username,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if created {
		log.WithFields(log.Fields{
			"discordID": discordID,
			"username":  username,
		}).Info("New player registered")
	}

	return user, nil
}

func (s *userService) GetUser(ctx context.Context, discordID int64) (*models.User, error) {
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

	return user, nil
}

func (s *userService) GetBalance(ctx context.Context, discordID int64) (int64, error) {
	user, err := s.GetUser(ctx, discordID)
	if errors.Is(err, models.ErrUserNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

func (s *userService) AdjustBalance(ctx context.Context, discordID int64, delta int64, relative bool) (*models.User, error) {
	if !relative && delta < 0 {
		return nil, fmt.Errorf("%w: cannot set balance to %d", models.ErrInsufficientBalance, delta)
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

	before := user.Balance
	var after int64

	switch {
	case !relative:
		if err := uow.UserRepository().SetBalance(ctx, discordID, delta); err != nil {
			return nil, err
		}
		after = delta
	case delta > 0:
		after, err = uow.UserRepository().AddBalance(ctx, discordID, delta)
		if err != nil {
			return nil, err
		}
	case delta < 0:
		after, err = uow.UserRepository().DeductBalance(ctx, discordID, -delta)
		if err != nil {
			return nil, err
		}
	default:
		return user, nil
	}

	if after != before {
		history := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   before,
			BalanceAfter:    after,
			ChangeAmount:    after - before,
			TransactionType: models.TransactionTypeAdminAdjust,
			TransactionMetadata: map[string]any{
				"relative": relative,
				"delta":    delta,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record balance change: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"discordID": discordID,
		"before":    before,
		"after":     after,
		"relative":  relative,
	}).Info("Balance adjusted")

	user.Balance = after
	user.AvailableBalance = after - user.Reserved
	return user, nil
}

func (s *userService) SetNickname(ctx context.Context, discordID int64, nickname string) error {
	if !nicknamePattern.MatchString(nickname) {
		return fmt.Errorf("%w: must be 3-15 characters of letters, digits, _ or -", models.ErrInvalidNickname)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().SetNickname(ctx, discordID, nickname); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *userService) TopByBalance(ctx context.Context, n int) ([]*models.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().TopByBalance(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, &models.LeaderboardEntry{
			Rank:        i + 1,
			DiscordID:   user.DiscordID,
			DisplayName: user.DisplayName(),
			Balance:     user.Balance,
		})
	}
	return entries, nil
}

func (s *userService) GlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stats, err := uow.UserRepository().GetGlobalStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get global stats: %w", err)
	}
	return stats, nil
}

func (s *userService) AllDiscordIDs(ctx context.Context) ([]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ids, err := uow.UserRepository().AllDiscordIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return ids, nil
}

func (s *userService) RecentTransactions(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	if limit <= 0 {
		return nil, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	history, err := uow.BalanceHistoryRepository().GetByUser(ctx, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return history, nil
}
