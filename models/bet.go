package models

import "time"

// BetState tracks a wager through reserve, settle and release
type BetState string

const (
	BetStateReserved BetState = "reserved"
	BetStateSettled  BetState = "settled"
	BetStateReleased BetState = "released"
)

// Bet is the persisted record of a single wager
type Bet struct {
	ID               int64      `db:"id"`
	DiscordID        int64      `db:"discord_id"`
	Game             Game       `db:"game"`
	Amount           int64      `db:"amount"`
	State            BetState   `db:"state"`
	Draw             *int       `db:"draw"`
	Payout           *int64     `db:"payout"`
	BalanceHistoryID *int64     `db:"balance_history_id"`
	CreatedAt        time.Time  `db:"created_at"`
	SettledAt        *time.Time `db:"settled_at"`
}

// SettlementResult is returned to the caller once a wager has been settled
type SettlementResult struct {
	BetID      int64
	Game       Game
	Draw       int
	Wager      int64
	Payout     int64
	Outcome    Outcome
	NewBalance int64
}

// Net is the signed balance change caused by the settlement
func (r *SettlementResult) Net() int64 {
	return r.Payout - r.Wager
}
