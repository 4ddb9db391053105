package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Game is one of the fixed chance games a player can wager on
type Game string

const (
	GameDice       Game = "dice"
	GameSlots      Game = "slots"
	GameBasketball Game = "basketball"
	GameFootball   Game = "football"
)

// Games lists every playable game in menu order
func Games() []Game {
	return []Game{GameDice, GameSlots, GameBasketball, GameFootball}
}

// ParseGame maps user input onto a known game
func ParseGame(s string) (Game, error) {
	g := Game(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
	}
	return g, nil
}

// Valid reports whether g is a known game
func (g Game) Valid() bool {
	switch g {
	case GameDice, GameSlots, GameBasketball, GameFootball:
		return true
	}
	return false
}

// DrawRange returns the inclusive domain of outcome draws for the game
func (g Game) DrawRange() (lo, hi int) {
	switch g {
	case GameDice:
		return 1, 6
	case GameSlots:
		return 1, 64
	case GameBasketball, GameFootball:
		return 1, 5
	}
	return 0, 0
}

// Emoji is the animated dice primitive the game mimics
func (g Game) Emoji() string {
	switch g {
	case GameDice:
		return "🎲"
	case GameSlots:
		return "🎰"
	case GameBasketball:
		return "🏀"
	case GameFootball:
		return "⚽"
	}
	return "❔"
}

// Title is the human readable game name
func (g Game) Title() string {
	switch g {
	case GameDice:
		return "Dice"
	case GameSlots:
		return "Slots"
	case GameBasketball:
		return "Basketball"
	case GameFootball:
		return "Football"
	}
	return string(g)
}

// OutcomeKind classifies a resolved draw
type OutcomeKind string

const (
	OutcomeWin  OutcomeKind = "win"
	OutcomePush OutcomeKind = "push" // stake returned
	OutcomeLoss OutcomeKind = "loss"
)

// Outcome is the payout rule that applies to a single draw
type Outcome struct {
	Multiplier  decimal.Decimal
	Kind        OutcomeKind
	Description string
}

// Payout is floor(wager * multiplier)
func (o Outcome) Payout(wager int64) int64 {
	return decimal.NewFromInt(wager).Mul(o.Multiplier).Floor().IntPart()
}
