package service

import (
	"casinobot/models"

	"github.com/shopspring/decimal"
)

type payoutRule struct {
	multiplier  decimal.Decimal
	kind        models.OutcomeKind
	description string
}

var payoutTable = map[models.Game]map[int]payoutRule{
	models.GameSlots: {
		64: {decimal.NewFromInt(50), models.OutcomeWin, "JACKPOT! 7️⃣7️⃣7️⃣"},
		43: {decimal.NewFromInt(20), models.OutcomeWin, "Great! Three grapes! 🍇🍇🍇"},
		22: {decimal.NewFromInt(10), models.OutcomeWin, "Not bad! Three lemons! 🍋🍋🍋"},
		1:  {decimal.NewFromInt(5), models.OutcomeWin, "Winner! Three BARs! 🅱️🅱️🅱️"},
	},
	models.GameDice: {
		6: {decimal.NewFromInt(3), models.OutcomeWin, "Rolled a 6! You win!"},
		5: {decimal.NewFromInt(2), models.OutcomeWin, "Rolled a 5! You win!"},
	},
	models.GameBasketball: {
		5: {decimal.RequireFromString("2.5"), models.OutcomeWin, "SCORE! You win!"},
		4: {decimal.NewFromInt(1), models.OutcomePush, "So close! Your stake is returned."},
	},
	models.GameFootball: {
		5: {decimal.RequireFromString("2.5"), models.OutcomeWin, "GOAL! You win!"},
		4: {decimal.NewFromInt(1), models.OutcomePush, "So close! Your stake is returned."},
	},
}

const lossDescription = "Unlucky, you lost."

// ResolveOutcome maps a game and draw to its payout rule.
// It is total: any pair without a rule, including unknown games and
// out-of-range draws, resolves to a loss with a zero multiplier.
func ResolveOutcome(game models.Game, draw int) models.Outcome {
	if rule, ok := payoutTable[game][draw]; ok {
		return models.Outcome{
			Multiplier:  rule.multiplier,
			Kind:        rule.kind,
			Description: rule.description,
		}
	}
	return models.Outcome{
		Multiplier:  decimal.Zero,
		Kind:        models.OutcomeLoss,
		Description: lossDescription,
	}
}

// PayoutFor returns floor(wager * multiplier) for the resolved draw
func PayoutFor(game models.Game, draw int, wager int64) int64 {
	return ResolveOutcome(game, draw).Payout(wager)
}

// PayoutRules lists the winning draws of a game, used to render the rules
func PayoutRules(game models.Game) map[int]models.Outcome {
	rules := make(map[int]models.Outcome, len(payoutTable[game]))
	for draw := range payoutTable[game] {
		rules[draw] = ResolveOutcome(game, draw)
	}
	return rules
}
