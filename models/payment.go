package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a deposit request
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusCredited PaymentStatus = "credited"
	PaymentStatusExpired  PaymentStatus = "expired"
)

// PaymentRequest is a deposit the player has been asked to pay.
// The reference is embedded in the provider payment as its label.
type PaymentRequest struct {
	Reference           string        `db:"reference"`
	DiscordID           int64         `db:"discord_id"`
	Amount              int64         `db:"amount"`
	Status              PaymentStatus `db:"status"`
	ProviderOperationID *string       `db:"provider_operation_id"`
	ProviderAmount      *string       `db:"provider_amount"`
	PaymentURL          string        `db:"-"`
	CreatedAt           time.Time     `db:"created_at"`
	CreditedAt          *time.Time    `db:"credited_at"`
}

// ProviderOperation is one entry of the provider's operation history
type ProviderOperation struct {
	OperationID string
	Status      string
	Label       string
	Amount      decimal.Decimal
	DateTime    time.Time
}

// DepositResult reports what confirming a deposit did
type DepositResult struct {
	Matched    bool
	Request    *PaymentRequest
	NewBalance int64
}
