package repository

import (
	"context"
	"testing"
	"time"

	"casinobot/events"
	"casinobot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		received <- event
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, _, err := uow.UserRepository().Upsert(ctx, 1, "player")
	require.NoError(t, err)
	uow.EventBus().Publish(events.UserCreatedEvent{DiscordID: 1, Username: "player"})
	require.NoError(t, uow.Commit())
	require.NoError(t, uow.Rollback(), "rollback after commit is a no-op")

	select {
	case event := <-received:
		assert.Equal(t, events.UserCreatedEvent{DiscordID: 1, Username: "player"}, event)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered after commit")
	}

	user, err := NewUserRepository(testDB.DB).GetByDiscordID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		received <- event
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, _, err := uow.UserRepository().Upsert(ctx, 2, "ghost")
	require.NoError(t, err)
	uow.EventBus().Publish(events.UserCreatedEvent{DiscordID: 2, Username: "ghost"})
	require.NoError(t, uow.Rollback())

	select {
	case <-received:
		t.Fatal("event delivered after rollback")
	case <-time.After(200 * time.Millisecond):
	}

	user, err := NewUserRepository(testDB.DB).GetByDiscordID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUnitOfWork_RepositoriesRequireBegin(t *testing.T) {
	uow := NewUnitOfWorkFactory(nil, events.NewBus()).Create()

	assert.Panics(t, func() { uow.UserRepository() })
	assert.Panics(t, func() { uow.PaymentRepository() })
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}
