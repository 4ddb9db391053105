package service

import (
	"testing"

	"casinobot/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolveOutcome_Table(t *testing.T) {
	tests := []struct {
		game   models.Game
		draw   int
		wager  int64
		payout int64
		kind   models.OutcomeKind
	}{
		{models.GameSlots, 64, 100, 5000, models.OutcomeWin},
		{models.GameSlots, 43, 100, 2000, models.OutcomeWin},
		{models.GameSlots, 22, 100, 1000, models.OutcomeWin},
		{models.GameSlots, 1, 100, 500, models.OutcomeWin},
		{models.GameSlots, 2, 100, 0, models.OutcomeLoss},
		{models.GameSlots, 63, 100, 0, models.OutcomeLoss},
		{models.GameDice, 6, 100, 300, models.OutcomeWin},
		{models.GameDice, 5, 100, 200, models.OutcomeWin},
		{models.GameDice, 4, 100, 0, models.OutcomeLoss},
		{models.GameDice, 1, 100, 0, models.OutcomeLoss},
		{models.GameBasketball, 5, 100, 250, models.OutcomeWin},
		{models.GameBasketball, 4, 100, 100, models.OutcomePush},
		{models.GameBasketball, 3, 100, 0, models.OutcomeLoss},
		{models.GameFootball, 5, 100, 250, models.OutcomeWin},
		{models.GameFootball, 4, 100, 100, models.OutcomePush},
		{models.GameFootball, 1, 100, 0, models.OutcomeLoss},
	}

	for _, tt := range tests {
		outcome := ResolveOutcome(tt.game, tt.draw)
		assert.Equal(t, tt.kind, outcome.Kind, "%s draw %d", tt.game, tt.draw)
		assert.Equal(t, tt.payout, outcome.Payout(tt.wager), "%s draw %d", tt.game, tt.draw)
		assert.NotEmpty(t, outcome.Description)
	}
}

func TestResolveOutcome_TruncatesFractionalPayout(t *testing.T) {
	assert.Equal(t, int64(252), PayoutFor(models.GameFootball, 5, 101))
	assert.Equal(t, int64(252), PayoutFor(models.GameBasketball, 5, 101))
	assert.Equal(t, int64(2), PayoutFor(models.GameBasketball, 5, 1))
	assert.Equal(t, int64(250000), PayoutFor(models.GameFootball, 5, 100000))
}

func TestResolveOutcome_IsTotal(t *testing.T) {
	for _, game := range append(models.Games(), models.Game("roulette"), models.Game("")) {
		for draw := -5; draw <= 70; draw++ {
			outcome := ResolveOutcome(game, draw)
			assert.False(t, outcome.Multiplier.IsNegative(), "%s draw %d", game, draw)
			assert.GreaterOrEqual(t, outcome.Payout(100), int64(0))
		}
	}

	unknown := ResolveOutcome(models.Game("roulette"), 6)
	assert.Equal(t, models.OutcomeLoss, unknown.Kind)
	assert.True(t, unknown.Multiplier.IsZero())
}

func TestPayoutRules(t *testing.T) {
	rules := PayoutRules(models.GameSlots)
	assert.Len(t, rules, 4)
	assert.Equal(t, "50", rules[64].Multiplier.String())

	assert.Empty(t, PayoutRules(models.Game("roulette")))
}

// expectedReturn averages the multiplier over every equally likely draw
func expectedReturn(game models.Game) decimal.Decimal {
	lo, hi := game.DrawRange()
	total := decimal.Zero
	for draw := lo; draw <= hi; draw++ {
		total = total.Add(ResolveOutcome(game, draw).Multiplier)
	}
	return total.Div(decimal.NewFromInt(int64(hi - lo + 1)))
}

func TestPayoutTable_ExpectedReturn(t *testing.T) {
	tests := []struct {
		game     models.Game
		expected string
	}{
		{models.GameDice, "0.8333"},
		{models.GameSlots, "1.3281"},
		{models.GameBasketball, "0.7"},
		{models.GameFootball, "0.7"},
	}

	for _, tt := range tests {
		t.Run(string(tt.game), func(t *testing.T) {
			assert.Equal(t, tt.expected, expectedReturn(tt.game).Round(4).String())
		})
	}
}
