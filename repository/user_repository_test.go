package repository

import (
	"context"
	"sync"
	"testing"

	"casinobot/models"
	"casinobot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Upsert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("first contact creates with zero balance", func(t *testing.T) {
		user, created, err := repo.Upsert(ctx, 123456, "newplayer")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(0), user.Balance)
		assert.Equal(t, "newplayer", user.Username)
	})

	t.Run("second contact refreshes username", func(t *testing.T) {
		user, created, err := repo.Upsert(ctx, 123456, "renamed")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "renamed", user.Username)
	})
}

func TestUserRepository_GetByDiscordID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByDiscordID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		testutil.CreateTestUser(t, testDB.DB, 123456, "testuser", 1000)

		user, err := repo.GetByDiscordID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(1000), user.Balance)
		assert.Equal(t, int64(1000), user.AvailableBalance)
		assert.Nil(t, user.Nickname)
	})
}

func TestUserRepository_DeductBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 500)

	t.Run("exact balance succeeds", func(t *testing.T) {
		balance, err := repo.DeductBalance(ctx, 1, 500)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("overdraft is rejected", func(t *testing.T) {
		_, err := repo.DeductBalance(ctx, 1, 1)
		assert.ErrorIs(t, err, models.ErrInsufficientBalance)

		user, err := repo.GetByDiscordID(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, user.Balance)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.DeductBalance(ctx, 404, 1)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestUserRepository_ReservationLifecycle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 1000)

	require.NoError(t, repo.Reserve(ctx, 1, 600))

	t.Run("reserved funds are unavailable", func(t *testing.T) {
		err := repo.Reserve(ctx, 1, 500)
		assert.ErrorIs(t, err, models.ErrInsufficientBalance)

		_, err = repo.DeductBalance(ctx, 1, 500)
		assert.ErrorIs(t, err, models.ErrInsufficientBalance)

		err = repo.SetBalance(ctx, 1, 100)
		assert.ErrorIs(t, err, models.ErrInsufficientBalance)

		user, err := repo.GetByDiscordID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
		assert.Equal(t, int64(600), user.Reserved)
		assert.Equal(t, int64(400), user.AvailableBalance)
	})

	t.Run("commit consumes the wager and credits the payout", func(t *testing.T) {
		balance, err := repo.CommitReservation(ctx, 1, 600, 1800)
		require.NoError(t, err)
		assert.Equal(t, int64(2200), balance)

		user, err := repo.GetByDiscordID(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, user.Reserved)
	})

	t.Run("release returns the hold", func(t *testing.T) {
		require.NoError(t, repo.Reserve(ctx, 1, 200))
		require.NoError(t, repo.Release(ctx, 1, 200))

		user, err := repo.GetByDiscordID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2200), user.AvailableBalance)

		assert.Error(t, repo.Release(ctx, 1, 200))
	})
}

func TestUserRepository_ConcurrentReservesNeverOverdraw(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 1000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Reserve(ctx, 1, 100); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)

	user, err := repo.GetByDiscordID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), user.Reserved)
	assert.Zero(t, user.AvailableBalance)
}

func TestUserRepository_RecordOutcome(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 1000)

	outcomes := []struct{ wager, payout int64 }{
		{100, 300},
		{100, 0},
		{50, 50},
		{10, 0},
	}
	for _, o := range outcomes {
		require.NoError(t, repo.RecordOutcome(ctx, 1, o.wager, o.payout))
	}

	user, err := repo.GetByDiscordID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), user.GamesPlayed)
	assert.Equal(t, int64(2), user.GamesWon)
	assert.Equal(t, int64(260), user.TotalWagered)
	assert.Equal(t, int64(90), user.NetProfit)
}

func TestUserRepository_SetNickname(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 0)

	require.NoError(t, repo.SetNickname(ctx, 1, "Lucky_7"))

	user, err := repo.GetByDiscordID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, user.Nickname)
	assert.Equal(t, "Lucky_7", *user.Nickname)
	assert.Equal(t, "Lucky_7", user.DisplayName())

	assert.ErrorIs(t, repo.SetNickname(ctx, 404, "nobody"), models.ErrUserNotFound)
}

func TestUserRepository_TopByBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.CreateTestUser(t, testDB.DB, 30, "c", 500)
	testutil.CreateTestUser(t, testDB.DB, 10, "a", 500)
	testutil.CreateTestUser(t, testDB.DB, 20, "b", 900)
	testutil.CreateTestUser(t, testDB.DB, 40, "d", 100)

	users, err := repo.TopByBalance(ctx, 3)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, int64(20), users[0].DiscordID)
	assert.Equal(t, int64(10), users[1].DiscordID, "ties break by ascending id")
	assert.Equal(t, int64(30), users[2].DiscordID)
}

func TestUserRepository_AllDiscordIDs(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	empty, err := repo.AllDiscordIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	testutil.CreateTestUser(t, testDB.DB, 30, "c", 0)
	testutil.CreateTestUser(t, testDB.DB, 10, "a", 500)
	testutil.CreateTestUser(t, testDB.DB, 20, "b", 900)

	ids, err := repo.AllDiscordIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, ids)
}

func TestUserRepository_GetGlobalStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		stats, err := repo.GetGlobalStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &models.GlobalStats{}, stats)
	})

	t.Run("aggregates", func(t *testing.T) {
		testutil.CreateTestUser(t, testDB.DB, 1, "a", 1000)
		testutil.CreateTestUser(t, testDB.DB, 2, "b", 500)
		require.NoError(t, repo.RecordOutcome(ctx, 1, 100, 300))
		require.NoError(t, repo.RecordOutcome(ctx, 2, 200, 0))

		stats, err := repo.GetGlobalStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalUsers)
		assert.Equal(t, int64(1500), stats.TotalBalance)
		assert.Equal(t, int64(2), stats.TotalGames)
		assert.Equal(t, int64(300), stats.TotalWagered)
		assert.Equal(t, int64(0), stats.HouseProfit)
	})
}
