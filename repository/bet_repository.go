package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casinobot/database"
	"casinobot/models"

	"github.com/jackc/pgx/v5"
)

const betColumns = `id, discord_id, game, amount, state, draw, payout, balance_history_id, created_at, settled_at`

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

func scanBet(row pgx.Row) (*models.Bet, error) {
	var bet models.Bet
	err := row.Scan(
		&bet.ID,
		&bet.DiscordID,
		&bet.Game,
		&bet.Amount,
		&bet.State,
		&bet.Draw,
		&bet.Payout,
		&bet.BalanceHistoryID,
		&bet.CreatedAt,
		&bet.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// Create inserts a new bet record
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	if bet.State == "" {
		bet.State = models.BetStateReserved
	}

	query := `
		INSERT INTO bets (discord_id, game, amount, state)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, bet.DiscordID, bet.Game, bet.Amount, bet.State).Scan(&bet.ID, &bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet for user %d: %w", bet.DiscordID, err)
	}
	return nil
}

// GetByID retrieves a bet by its ID
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}
	return bet, nil
}

// MarkSettled records the draw and payout of a reserved bet
func (r *BetRepository) MarkSettled(ctx context.Context, id int64, draw int, payout int64, balanceHistoryID int64) error {
	query := `
		UPDATE bets
		SET state = 'settled', draw = $1, payout = $2, balance_history_id = $3, settled_at = NOW()
		WHERE id = $4 AND state = 'reserved'
	`

	result, err := r.q.Exec(ctx, query, draw, payout, balanceHistoryID, id)
	if err != nil {
		return fmt.Errorf("failed to settle bet %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bet %d is no longer reserved", id)
	}
	return nil
}

// MarkReleased abandons a reserved bet, reporting false when it was already settled or released
func (r *BetRepository) MarkReleased(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE bets
		SET state = 'released', settled_at = NOW()
		WHERE id = $1 AND state = 'reserved'
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to release bet %d: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

// GetReservedBefore returns reserved bets created before the cutoff, oldest first
func (r *BetRepository) GetReservedBefore(ctx context.Context, cutoff time.Time) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE state = 'reserved' AND created_at < $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get reserved bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bets: %w", err)
	}
	return bets, nil
}

// GetStats aggregates the settled bets of a user
func (r *BetRepository) GetStats(ctx context.Context, discordID int64) (*models.BetStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE payout > 0),
			COALESCE(SUM(amount), 0)::bigint,
			COALESCE(SUM(payout), 0)::bigint,
			COALESCE(MAX(payout - amount) FILTER (WHERE payout > amount), 0)
		FROM bets
		WHERE discord_id = $1 AND state = 'settled'
	`

	stats := &models.BetStats{}
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&stats.TotalBets,
		&stats.TotalWins,
		&stats.TotalWagered,
		&stats.TotalPaidOut,
		&stats.BiggestWin,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet stats for user %d: %w", discordID, err)
	}
	return stats, nil
}
