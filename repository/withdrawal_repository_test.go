package repository

import (
	"context"
	"testing"

	"casinobot/models"
	"casinobot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalRepository_Lifecycle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawalRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 0)

	first := &models.WithdrawalRequest{DiscordID: 1, Amount: 500}
	second := &models.WithdrawalRequest{DiscordID: 1, Amount: 700}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	pending, err := repo.GetPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)

	require.NoError(t, repo.Resolve(ctx, first.ID, models.WithdrawalStatusCompleted, 42))

	t.Run("resolved withdrawal leaves the queue", func(t *testing.T) {
		pending, err := repo.GetPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, second.ID, pending[0].ID)
	})

	t.Run("resolution is recorded", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalStatusCompleted, stored.Status)
		require.NotNil(t, stored.ResolvedBy)
		assert.Equal(t, int64(42), *stored.ResolvedBy)
		assert.NotNil(t, stored.ResolvedAt)
	})

	t.Run("cannot resolve twice", func(t *testing.T) {
		err := repo.Resolve(ctx, first.ID, models.WithdrawalStatusRejected, 42)
		assert.ErrorIs(t, err, models.ErrWithdrawalResolved)
	})

	t.Run("unknown withdrawal", func(t *testing.T) {
		err := repo.Resolve(ctx, 999999, models.WithdrawalStatusCompleted, 42)
		assert.ErrorIs(t, err, models.ErrWithdrawalNotFound)
	})
}
