package events

import (
	"context"
	"sync"

	"casinobot/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange       EventType = "balance_change"
	EventTypeUserCreated         EventType = "user_created"
	EventTypeBetSettled          EventType = "bet_settled"
	EventTypeDepositCredited     EventType = "deposit_credited"
	EventTypeWithdrawalRequested EventType = "withdrawal_requested"
	EventTypeWithdrawalResolved  EventType = "withdrawal_resolved"
)

// AllEventTypes lists every event type the services emit
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeBalanceChange,
		EventTypeUserCreated,
		EventTypeBetSettled,
		EventTypeDepositCredited,
		EventTypeWithdrawalRequested,
		EventTypeWithdrawalResolved,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64                  `json:"user_id"`
	OldBalance      int64                  `json:"old_balance"`
	NewBalance      int64                  `json:"new_balance"`
	TransactionType models.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                  `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent is emitted the first time a player is seen
type UserCreatedEvent struct {
	DiscordID int64  `json:"discord_id"`
	Username  string `json:"username"`
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// BetSettledEvent represents a wager that was drawn and paid out
type BetSettledEvent struct {
	UserID  int64              `json:"user_id"`
	BetID   int64              `json:"bet_id"`
	Game    models.Game        `json:"game"`
	Draw    int                `json:"draw"`
	Amount  int64              `json:"amount"`
	Payout  int64              `json:"payout"`
	Outcome models.OutcomeKind `json:"outcome"`
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// DepositCreditedEvent represents a confirmed external payment
type DepositCreditedEvent struct {
	UserID              int64  `json:"user_id"`
	Reference           string `json:"reference"`
	Amount              int64  `json:"amount"`
	ProviderOperationID string `json:"provider_operation_id"`
}

func (e DepositCreditedEvent) Type() EventType {
	return EventTypeDepositCredited
}

// WithdrawalRequestedEvent asks an operator to pay a player out
type WithdrawalRequestedEvent struct {
	WithdrawalID int64  `json:"withdrawal_id"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	Amount       int64  `json:"amount"`
}

func (e WithdrawalRequestedEvent) Type() EventType {
	return EventTypeWithdrawalRequested
}

// WithdrawalResolvedEvent represents an operator completing or rejecting a withdrawal
type WithdrawalResolvedEvent struct {
	WithdrawalID int64                   `json:"withdrawal_id"`
	UserID       int64                   `json:"user_id"`
	Amount       int64                   `json:"amount"`
	Status       models.WithdrawalStatus `json:"status"`
	ResolvedBy   int64                   `json:"resolved_by"`
}

func (e WithdrawalResolvedEvent) Type() EventType {
	return EventTypeWithdrawalResolved
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// SubscribeAll adds the handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes() {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines and a panicking handler is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit.
// Events are emitted on a background context so they outlive the request.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events to main event bus")

	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of events waiting for Flush
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
