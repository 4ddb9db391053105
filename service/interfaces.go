package service

import (
	"context"
	"time"

	"casinobot/events"
	"casinobot/models"
)

// UserRepository defines the interface for user data access.
// Every balance mutation is a single conditional statement so concurrent
// writers cannot drive balance or reserved below zero.
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, nil if unknown
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// Upsert creates the user with a zero balance or refreshes the username.
	// created reports whether the row was inserted.
	Upsert(ctx context.Context, discordID int64, username string) (user *models.User, created bool, err error)

	// AddBalance credits the user and returns the new balance
	AddBalance(ctx context.Context, discordID int64, amount int64) (int64, error)

	// DeductBalance debits the user, failing if the available balance is too low
	DeductBalance(ctx context.Context, discordID int64, amount int64) (int64, error)

	// SetBalance overwrites the balance, failing if it would drop below the reserved amount
	SetBalance(ctx context.Context, discordID int64, newBalance int64) error

	// Reserve holds amount out of the available balance
	Reserve(ctx context.Context, discordID int64, amount int64) error

	// Release returns a held amount to the available balance
	Release(ctx context.Context, discordID int64, amount int64) error

	// CommitReservation consumes a held wager and credits the payout, returning the new balance
	CommitReservation(ctx context.Context, discordID int64, wager, payout int64) (int64, error)

	// RecordOutcome updates the per-user game statistics
	RecordOutcome(ctx context.Context, discordID int64, wager, payout int64) error

	// SetNickname stores the validated nickname
	SetNickname(ctx context.Context, discordID int64, nickname string) error

	// TopByBalance returns users ordered by balance descending, ties by Discord ID ascending
	TopByBalance(ctx context.Context, limit int) ([]*models.User, error)

	// GetGlobalStats aggregates figures across all users
	GetGlobalStats(ctx context.Context) (*models.GlobalStats, error)

	// AllDiscordIDs lists every registered player
	AllDiscordIDs(ctx context.Context) ([]int64, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a specific user, newest first
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create inserts a bet in the reserved state
	Create(ctx context.Context, bet *models.Bet) error

	// GetByID retrieves a bet by its ID
	GetByID(ctx context.Context, id int64) (*models.Bet, error)

	// MarkSettled moves a reserved bet to settled
	MarkSettled(ctx context.Context, id int64, draw int, payout int64, balanceHistoryID int64) error

	// MarkReleased moves a reserved bet to released. It reports false if the bet was no longer reserved.
	MarkReleased(ctx context.Context, id int64) (bool, error)

	// GetReservedBefore returns reserved bets created before the cutoff
	GetReservedBefore(ctx context.Context, cutoff time.Time) ([]*models.Bet, error)

	// GetStats returns settled bet statistics for a user
	GetStats(ctx context.Context, discordID int64) (*models.BetStats, error)
}

// PaymentRepository defines the interface for deposit request persistence
type PaymentRepository interface {
	// Create persists a new pending request
	Create(ctx context.Context, request *models.PaymentRequest) error

	// GetByReference retrieves a request by its reference, nil if unknown
	GetByReference(ctx context.Context, reference string) (*models.PaymentRequest, error)

	// GetLatestOpen returns the newest pending request of a user, nil if none
	GetLatestOpen(ctx context.Context, discordID int64) (*models.PaymentRequest, error)

	// MarkCredited transitions a pending or expired request to credited.
	// It fails with models.ErrAlreadyCredited when the request was credited before.
	MarkCredited(ctx context.Context, reference string, operationID string, providerAmount string) error

	// ExpireBefore marks pending requests created before the cutoff as expired
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// WithdrawalRepository defines the interface for withdrawal request persistence
type WithdrawalRepository interface {
	// Create persists a new pending withdrawal
	Create(ctx context.Context, request *models.WithdrawalRequest) error

	// GetByID retrieves a withdrawal, nil if unknown
	GetByID(ctx context.Context, id int64) (*models.WithdrawalRequest, error)

	// Resolve moves a pending withdrawal to the given status.
	// It fails with models.ErrWithdrawalResolved when the request is no longer pending.
	Resolve(ctx context.Context, id int64, status models.WithdrawalStatus, resolvedBy int64) error

	// GetPending lists pending withdrawals, oldest first
	GetPending(ctx context.Context) ([]*models.WithdrawalRequest, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	BetRepository() BetRepository
	PaymentRepository() PaymentRepository
	WithdrawalRepository() WithdrawalRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// DrawOracle produces the random outcome draw for a game
type DrawOracle interface {
	Draw(ctx context.Context, game models.Game) (int, error)
}

// PaymentProvider is the external wallet that receives deposits
type PaymentProvider interface {
	// PaymentURL builds the checkout link carrying reference as the payment label
	PaymentURL(reference string, amount int64) string

	// OperationHistory returns incoming operations tagged with the label
	OperationHistory(ctx context.Context, label string) ([]models.ProviderOperation, error)
}

// UserService defines the interface for account operations
type UserService interface {
	// EnsureUser creates the account on first contact and refreshes the username
	EnsureUser(ctx context.Context, discordID int64, username string) (*models.User, error)

	// GetUser returns the account with statistics, models.ErrUserNotFound if unknown
	GetUser(ctx context.Context, discordID int64) (*models.User, error)

	// GetBalance returns the balance, 0 for unknown users
	GetBalance(ctx context.Context, discordID int64) (int64, error)

	// AdjustBalance adds delta (relative) or overwrites the balance (absolute).
	// Results below zero are rejected with models.ErrInsufficientBalance.
	AdjustBalance(ctx context.Context, discordID int64, delta int64, relative bool) (*models.User, error)

	// SetNickname validates and stores the public nickname
	SetNickname(ctx context.Context, discordID int64, nickname string) error

	// TopByBalance returns the n richest players
	TopByBalance(ctx context.Context, n int) ([]*models.LeaderboardEntry, error)

	// GlobalStats aggregates figures across every account
	GlobalStats(ctx context.Context) (*models.GlobalStats, error)

	// AllDiscordIDs lists every player, used for admin broadcasts
	AllDiscordIDs(ctx context.Context) ([]int64, error)

	// RecentTransactions returns a player's latest balance changes, newest first
	RecentTransactions(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// SettlementService defines the interface for settling single-player wagers
type SettlementService interface {
	// Settle reserves the wager, draws, resolves and commits the payout atomically
	Settle(ctx context.Context, discordID int64, game models.Game, wager int64) (*models.SettlementResult, error)

	// ReleaseStaleReservations releases reservations older than the cutoff age
	ReleaseStaleReservations(ctx context.Context, olderThan time.Duration) (int, error)

	// GetBetStats returns settled bet statistics for a user
	GetBetStats(ctx context.Context, discordID int64) (*models.BetStats, error)
}

// PaymentService defines the interface for deposit reconciliation
type PaymentService interface {
	// InitiateDeposit persists a payment request and returns it with its checkout URL
	InitiateDeposit(ctx context.Context, discordID int64, amount int64) (*models.PaymentRequest, error)

	// ConfirmDeposit checks the provider and credits the request at most once
	ConfirmDeposit(ctx context.Context, discordID int64, reference string) (*models.DepositResult, error)

	// LatestOpenDeposit returns the newest pending request of a user, nil if none
	LatestOpenDeposit(ctx context.Context, discordID int64) (*models.PaymentRequest, error)

	// ExpireStaleDeposits expires pending requests older than the cutoff age
	ExpireStaleDeposits(ctx context.Context, olderThan time.Duration) (int64, error)
}

// WithdrawalService defines the interface for cash-out requests
type WithdrawalService interface {
	// RequestWithdrawal debits the amount and queues it for an operator
	RequestWithdrawal(ctx context.Context, discordID int64, amount int64) (*models.WithdrawalRequest, error)

	// CompleteWithdrawal marks a pending withdrawal as paid out
	CompleteWithdrawal(ctx context.Context, id int64, adminID int64) (*models.WithdrawalRequest, error)

	// RejectWithdrawal refunds a pending withdrawal
	RejectWithdrawal(ctx context.Context, id int64, adminID int64) (*models.WithdrawalRequest, error)

	// PendingWithdrawals lists withdrawals waiting for an operator
	PendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error)
}
