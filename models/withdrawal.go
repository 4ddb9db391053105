package models

import "time"

// WithdrawalStatus is the lifecycle state of a cash-out request
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

// WithdrawalRequest holds funds debited from a player until an admin pays them out
type WithdrawalRequest struct {
	ID         int64            `db:"id"`
	DiscordID  int64            `db:"discord_id"`
	Amount     int64            `db:"amount"`
	Status     WithdrawalStatus `db:"status"`
	CreatedAt  time.Time        `db:"created_at"`
	ResolvedAt *time.Time       `db:"resolved_at"`
	ResolvedBy *int64           `db:"resolved_by"`
}
