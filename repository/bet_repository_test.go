package repository

import (
	"context"
	"testing"
	"time"

	"casinobot/models"
	"casinobot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetRepository_Lifecycle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	historyRepo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 1000)

	bet := &models.Bet{DiscordID: 1, Game: models.GameDice, Amount: 100}
	require.NoError(t, repo.Create(ctx, bet))
	assert.NotZero(t, bet.ID)
	assert.Equal(t, models.BetStateReserved, bet.State)

	history := testutil.CreateTestBalanceHistoryWithAmounts(1, 1000, 1200, models.TransactionTypeBetWin)
	require.NoError(t, historyRepo.Record(ctx, history))

	t.Run("settle", func(t *testing.T) {
		require.NoError(t, repo.MarkSettled(ctx, bet.ID, 6, 300, history.ID))

		stored, err := repo.GetByID(ctx, bet.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BetStateSettled, stored.State)
		require.NotNil(t, stored.Draw)
		assert.Equal(t, 6, *stored.Draw)
		require.NotNil(t, stored.Payout)
		assert.Equal(t, int64(300), *stored.Payout)
		assert.NotNil(t, stored.SettledAt)
	})

	t.Run("settled bet cannot be settled or released again", func(t *testing.T) {
		assert.Error(t, repo.MarkSettled(ctx, bet.ID, 1, 0, history.ID))

		released, err := repo.MarkReleased(ctx, bet.ID)
		require.NoError(t, err)
		assert.False(t, released)
	})

	t.Run("unknown bet", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestBetRepository_GetReservedBefore(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 1000)

	stale := &models.Bet{DiscordID: 1, Game: models.GameSlots, Amount: 10}
	require.NoError(t, repo.Create(ctx, stale))
	_, err := testDB.DB.Exec(ctx, `UPDATE bets SET created_at = NOW() - INTERVAL '1 hour' WHERE id = $1`, stale.ID)
	require.NoError(t, err)

	fresh := &models.Bet{DiscordID: 1, Game: models.GameSlots, Amount: 20}
	require.NoError(t, repo.Create(ctx, fresh))

	bets, err := repo.GetReservedBefore(ctx, time.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, stale.ID, bets[0].ID)

	released, err := repo.MarkReleased(ctx, stale.ID)
	require.NoError(t, err)
	assert.True(t, released)

	bets, err = repo.GetReservedBefore(ctx, time.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestBetRepository_GetStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	historyRepo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 1000)

	settled := []struct {
		amount int64
		draw   int
		payout int64
	}{
		{100, 6, 300},
		{100, 1, 0},
		{40, 4, 40},
	}
	for _, s := range settled {
		bet := &models.Bet{DiscordID: 1, Game: models.GameDice, Amount: s.amount}
		require.NoError(t, repo.Create(ctx, bet))
		history := testutil.CreateTestBalanceHistory(1, models.TransactionTypeBetLoss)
		require.NoError(t, historyRepo.Record(ctx, history))
		require.NoError(t, repo.MarkSettled(ctx, bet.ID, s.draw, s.payout, history.ID))
	}

	// reserved bets are excluded
	require.NoError(t, repo.Create(ctx, &models.Bet{DiscordID: 1, Game: models.GameDice, Amount: 999}))

	stats, err := repo.GetStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &models.BetStats{
		TotalBets:    3,
		TotalWins:    2,
		TotalWagered: 240,
		TotalPaidOut: 340,
		BiggestWin:   200,
	}, stats)
}
