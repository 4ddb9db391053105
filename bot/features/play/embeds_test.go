package play

import (
	"testing"

	"casinobot/bot/common"
	"casinobot/models"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResultEmbed(t *testing.T) {
	result := &models.SettlementResult{
		BetID:      7,
		Game:       models.GameDice,
		Draw:       6,
		Wager:      100,
		Payout:     300,
		Outcome:    service.ResolveOutcome(models.GameDice, 6),
		NewBalance: 1200,
	}

	embed := BuildResultEmbed("player", result)

	assert.Equal(t, "🎲 Dice: 6", embed.Title)
	assert.Equal(t, common.ColorSuccess, embed.Color)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "+200 ₽", embed.Fields[2].Value)
	assert.Equal(t, "**1,200 ₽**", embed.Fields[3].Value)
	assert.Contains(t, embed.Footer.Text, "bet #7")
}

func TestBuildResultEmbed_Colors(t *testing.T) {
	push := &models.SettlementResult{Game: models.GameFootball, Draw: 4, Wager: 100, Payout: 100, Outcome: service.ResolveOutcome(models.GameFootball, 4)}
	loss := &models.SettlementResult{Game: models.GameSlots, Draw: 2, Wager: 100, Outcome: service.ResolveOutcome(models.GameSlots, 2)}

	assert.Equal(t, common.ColorWarning, BuildResultEmbed("p", push).Color)
	assert.Equal(t, common.ColorDanger, BuildResultEmbed("p", loss).Color)
}

func TestBuildRulesEmbed(t *testing.T) {
	embed := BuildRulesEmbed(1, 100000)

	require.Len(t, embed.Fields, len(models.Games()))
	assert.Contains(t, embed.Description, "100,000 ₽")
	assert.Contains(t, embed.Fields[0].Name, "Dice (1-6)")
	assert.Contains(t, embed.Fields[0].Value, "`6` → x3")
	assert.Contains(t, embed.Fields[1].Value, "`64` → x50")
}

func TestBuildPlayAgainComponents(t *testing.T) {
	components := BuildPlayAgainComponents(models.GameSlots, 250)
	require.Len(t, components, 1)

	row, ok := components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	button, ok := row.Components[0].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, customIDPlayAgain, button.CustomID)
	assert.True(t, OwnsComponent(button.CustomID))
	assert.Contains(t, button.Label, "250 ₽")
}
