package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"casinobot/models"
	"casinobot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPaymentRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 0)

	request := testutil.CreateTestPaymentRequest(1, "casino_1_aaaaaaaa", 500)
	require.NoError(t, repo.Create(ctx, request))
	assert.False(t, request.CreatedAt.IsZero())

	stored, err := repo.GetByReference(ctx, "casino_1_aaaaaaaa")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(500), stored.Amount)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
	assert.Nil(t, stored.ProviderOperationID)

	missing, err := repo.GetByReference(ctx, "casino_1_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, repo.Create(ctx, testutil.CreateTestPaymentRequest(1, "casino_1_aaaaaaaa", 700)), "references are unique")
}

func TestPaymentRepository_GetLatestOpen(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPaymentRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 0)

	none, err := repo.GetLatestOpen(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestPaymentRequest(1, "casino_1_older000", 100)))
	_, err = testDB.DB.Exec(ctx, `UPDATE payment_requests SET created_at = NOW() - INTERVAL '1 minute' WHERE reference = 'casino_1_older000'`)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, testutil.CreateTestPaymentRequest(1, "casino_1_newer000", 200)))

	latest, err := repo.GetLatestOpen(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "casino_1_newer000", latest.Reference)
}

func TestPaymentRepository_MarkCreditedOnce(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPaymentRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 0)
	require.NoError(t, repo.Create(ctx, testutil.CreateTestPaymentRequest(1, "casino_1_bbbbbbbb", 500)))

	require.NoError(t, repo.MarkCredited(ctx, "casino_1_bbbbbbbb", "op-1", "485.5"))

	err := repo.MarkCredited(ctx, "casino_1_bbbbbbbb", "op-1", "485.5")
	assert.ErrorIs(t, err, models.ErrAlreadyCredited)

	err = repo.MarkCredited(ctx, "casino_1_missing", "op-2", "1")
	assert.ErrorIs(t, err, models.ErrPaymentNotFound)

	stored, err := repo.GetByReference(ctx, "casino_1_bbbbbbbb")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCredited, stored.Status)
	require.NotNil(t, stored.ProviderAmount)
	assert.Equal(t, "485.5", *stored.ProviderAmount)
	assert.NotNil(t, stored.CreditedAt)
}

func TestPaymentRepository_ConcurrentMarkCredited(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPaymentRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 0)
	require.NoError(t, repo.Create(ctx, testutil.CreateTestPaymentRequest(1, "casino_1_cccccccc", 500)))

	var wg sync.WaitGroup
	var mu sync.Mutex
	credited := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.MarkCredited(ctx, "casino_1_cccccccc", "op-1", "500"); err == nil {
				mu.Lock()
				credited++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, credited)
}

func TestPaymentRepository_ExpireBefore(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPaymentRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, "player", 0)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestPaymentRequest(1, "casino_1_stale000", 100)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestPaymentRequest(1, "casino_1_fresh000", 100)))
	_, err := testDB.DB.Exec(ctx, `UPDATE payment_requests SET created_at = NOW() - INTERVAL '2 days' WHERE reference = 'casino_1_stale000'`)
	require.NoError(t, err)

	expired, err := repo.ExpireBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	stale, err := repo.GetByReference(ctx, "casino_1_stale000")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, stale.Status)

	t.Run("expired request can still be credited", func(t *testing.T) {
		require.NoError(t, repo.MarkCredited(ctx, "casino_1_stale000", "op-late", "100"))
	})
}
