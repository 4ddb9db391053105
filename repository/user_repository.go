package repository

import (
	"context"
	"errors"
	"fmt"

	"casinobot/database"
	"casinobot/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `discord_id, username, nickname, balance, reserved,
	games_played, games_won, total_wagered, net_profit, created_at, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.DiscordID,
		&user.Username,
		&user.Nickname,
		&user.Balance,
		&user.Reserved,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.TotalWagered,
		&user.NetProfit,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.AvailableBalance = user.Balance - user.Reserved
	return &user, nil
}

// GetByDiscordID retrieves a user by their Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE discord_id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}
	return user, nil
}

// Upsert inserts the user with a zero balance or refreshes the stored username
func (r *UserRepository) Upsert(ctx context.Context, discordID int64, username string) (*models.User, bool, error) {
	query := `
		INSERT INTO users (discord_id, username)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET username = EXCLUDED.username,
		    updated_at = CASE WHEN users.username = EXCLUDED.username THEN users.updated_at ELSE NOW() END
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted
	`

	var user models.User
	var inserted bool
	err := r.q.QueryRow(ctx, query, discordID, username).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Nickname,
		&user.Balance,
		&user.Reserved,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.TotalWagered,
		&user.NetProfit,
		&user.CreatedAt,
		&user.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user with discord ID %d: %w", discordID, err)
	}

	user.AvailableBalance = user.Balance - user.Reserved
	return &user, inserted, nil
}

// AddBalance credits the user and returns the new balance
func (r *UserRepository) AddBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE discord_id = $2
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %d", models.ErrUserNotFound, discordID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", discordID, err)
	}
	return balance, nil
}

// DeductBalance debits the user only when the available balance covers the amount
func (r *UserRepository) DeductBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = balance - $1, updated_at = NOW()
		WHERE discord_id = $2 AND balance - reserved >= $1
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, r.shortfall(ctx, discordID, amount)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct balance for user %d: %w", discordID, err)
	}
	return balance, nil
}

// SetBalance overwrites the balance as long as it still covers the reserved amount
func (r *UserRepository) SetBalance(ctx context.Context, discordID int64, newBalance int64) error {
	query := `
		UPDATE users
		SET balance = $1, updated_at = NOW()
		WHERE discord_id = $2 AND reserved <= $1
	`

	result, err := r.q.Exec(ctx, query, newBalance, discordID)
	if err != nil {
		return fmt.Errorf("failed to set balance for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		user, err := r.GetByDiscordID(ctx, discordID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: %d", models.ErrUserNotFound, discordID)
		}
		return fmt.Errorf("%w: %d is held by pending bets", models.ErrInsufficientBalance, user.Reserved)
	}
	return nil
}

// Reserve moves amount from available to reserved
func (r *UserRepository) Reserve(ctx context.Context, discordID int64, amount int64) error {
	query := `
		UPDATE users
		SET reserved = reserved + $1, updated_at = NOW()
		WHERE discord_id = $2 AND balance - reserved >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, discordID)
	if err != nil {
		return fmt.Errorf("failed to reserve funds for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return r.shortfall(ctx, discordID, amount)
	}
	return nil
}

// Release returns a reserved amount to the available balance
func (r *UserRepository) Release(ctx context.Context, discordID int64, amount int64) error {
	query := `
		UPDATE users
		SET reserved = reserved - $1, updated_at = NOW()
		WHERE discord_id = $2 AND reserved >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, discordID)
	if err != nil {
		return fmt.Errorf("failed to release funds for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no reservation of %d held for user %d", amount, discordID)
	}
	return nil
}

// CommitReservation consumes a reserved wager and credits the payout in one statement
func (r *UserRepository) CommitReservation(ctx context.Context, discordID int64, wager, payout int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = balance - $1 + $2,
		    reserved = reserved - $1,
		    updated_at = NOW()
		WHERE discord_id = $3 AND reserved >= $1
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, wager, payout, discordID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("no reservation of %d held for user %d", wager, discordID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to commit reservation for user %d: %w", discordID, err)
	}
	return balance, nil
}

// RecordOutcome updates per-user game statistics. Any positive payout counts as a win.
func (r *UserRepository) RecordOutcome(ctx context.Context, discordID int64, wager, payout int64) error {
	query := `
		UPDATE users
		SET games_played = games_played + 1,
		    games_won = games_won + CASE WHEN $2::bigint > 0 THEN 1 ELSE 0 END,
		    total_wagered = total_wagered + $1::bigint,
		    net_profit = net_profit + $2::bigint - $1::bigint,
		    updated_at = NOW()
		WHERE discord_id = $3
	`

	result, err := r.q.Exec(ctx, query, wager, payout, discordID)
	if err != nil {
		return fmt.Errorf("failed to record outcome for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", models.ErrUserNotFound, discordID)
	}
	return nil
}

// SetNickname stores the public nickname
func (r *UserRepository) SetNickname(ctx context.Context, discordID int64, nickname string) error {
	query := `
		UPDATE users
		SET nickname = $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, nickname, discordID)
	if err != nil {
		return fmt.Errorf("failed to set nickname for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", models.ErrUserNotFound, discordID)
	}
	return nil
}

// TopByBalance returns users ordered by balance, ties broken by Discord ID
func (r *UserRepository) TopByBalance(ctx context.Context, limit int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		ORDER BY balance DESC, discord_id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// AllDiscordIDs lists every registered player in ascending ID order
func (r *UserRepository) AllDiscordIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT discord_id FROM users ORDER BY discord_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user ids: %w", err)
	}
	return ids, nil
}

// GetGlobalStats aggregates figures across all users
func (r *UserRepository) GetGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(balance), 0)::bigint,
			COALESCE(SUM(games_played), 0)::bigint,
			COALESCE(SUM(total_wagered), 0)::bigint,
			-COALESCE(SUM(net_profit), 0)::bigint
		FROM users
	`

	var stats models.GlobalStats
	err := r.q.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TotalBalance,
		&stats.TotalGames,
		&stats.TotalWagered,
		&stats.HouseProfit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get global stats: %w", err)
	}
	return &stats, nil
}

// shortfall explains why a guarded debit matched no row
func (r *UserRepository) shortfall(ctx context.Context, discordID int64, need int64) error {
	user, err := r.GetByDiscordID(ctx, discordID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: %d", models.ErrUserNotFound, discordID)
	}
	return fmt.Errorf("%w: have %d available, need %d", models.ErrInsufficientBalance, user.AvailableBalance, need)
}
