package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGame(t *testing.T) {
	g, err := ParseGame(" Dice ")
	require.NoError(t, err)
	assert.Equal(t, GameDice, g)

	_, err = ParseGame("roulette")
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestGame_DrawRange(t *testing.T) {
	cases := map[Game][2]int{
		GameDice:       {1, 6},
		GameSlots:      {1, 64},
		GameBasketball: {1, 5},
		GameFootball:   {1, 5},
	}
	for game, want := range cases {
		lo, hi := game.DrawRange()
		assert.Equal(t, want[0], lo, game)
		assert.Equal(t, want[1], hi, game)
	}

	lo, hi := Game("poker").DrawRange()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestOutcome_PayoutTruncates(t *testing.T) {
	o := Outcome{Multiplier: decimal.RequireFromString("2.5")}
	assert.Equal(t, int64(252), o.Payout(101))
	assert.Equal(t, int64(2), o.Payout(1))
	assert.Equal(t, int64(250), o.Payout(100))

	loss := Outcome{Multiplier: decimal.Zero}
	assert.Zero(t, loss.Payout(100000))
}

func TestDisplayName(t *testing.T) {
	nick := "ace_99"
	empty := ""

	assert.Equal(t, "ace_99", DisplayName(1, &nick, "someone"))
	assert.Equal(t, "someone", DisplayName(1, &empty, "someone"))
	assert.Equal(t, "someone", DisplayName(1, nil, "someone"))
	assert.Equal(t, "User 42", DisplayName(42, nil, ""))
}
