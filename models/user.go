package models

import (
	"fmt"
	"time"
)

// User is a player account keyed by Discord ID
type User struct {
	DiscordID        int64     `db:"discord_id"`
	Username         string    `db:"username"`
	Nickname         *string   `db:"nickname"`
	Balance          int64     `db:"balance"`
	Reserved         int64     `db:"reserved"` // held by in-flight settlements
	AvailableBalance int64     `db:"-"`        // balance minus reserved
	GamesPlayed      int64     `db:"games_played"`
	GamesWon         int64     `db:"games_won"`
	TotalWagered     int64     `db:"total_wagered"`
	NetProfit        int64     `db:"net_profit"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// DisplayName prefers the nickname, then the username, then a generic label
func (u *User) DisplayName() string {
	return DisplayName(u.DiscordID, u.Nickname, u.Username)
}

// WinRate returns the share of games with a positive payout, in percent
func (u *User) WinRate() float64 {
	if u.GamesPlayed == 0 {
		return 0
	}
	return float64(u.GamesWon) / float64(u.GamesPlayed) * 100
}

// DisplayName resolves the public name of a player
func DisplayName(discordID int64, nickname *string, username string) string {
	if nickname != nil && *nickname != "" {
		return *nickname
	}
	if username != "" {
		return username
	}
	return fmt.Sprintf("User %d", discordID)
}

// LeaderboardEntry is one row of the top-by-balance ranking
type LeaderboardEntry struct {
	Rank        int
	DiscordID   int64
	DisplayName string
	Balance     int64
}
