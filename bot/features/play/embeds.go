package play

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"casinobot/bot/common"
	"casinobot/models"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

// BuildRollingEmbed is shown while the draw is being revealed
func BuildRollingEmbed(game models.Game, amount int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", game.Emoji(), game.Title()),
		Description: fmt.Sprintf("Stake: **%s**\n\nRolling...", common.FormatAmount(amount)),
		Color:       common.ColorPrimary,
	}
}

// BuildResultEmbed reveals the outcome of a settled wager
func BuildResultEmbed(displayName string, result *models.SettlementResult) *discordgo.MessageEmbed {
	color := common.ColorDanger
	switch result.Outcome.Kind {
	case models.OutcomeWin:
		color = common.ColorSuccess
	case models.OutcomePush:
		color = common.ColorWarning
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s: %d", result.Game.Emoji(), result.Game.Title(), result.Draw),
		Description: result.Outcome.Description,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stake", Value: common.FormatAmount(result.Wager), Inline: true},
			{Name: "Payout", Value: common.FormatAmount(result.Payout), Inline: true},
			{Name: "Net", Value: common.FormatSigned(result.Net()), Inline: true},
			{Name: "Balance", Value: fmt.Sprintf("**%s**", common.FormatAmount(result.NewBalance)), Inline: false},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%s • bet #%d", displayName, result.BetID)},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// BuildPlayAgainComponents offers to repeat the same wager
func BuildPlayAgainComponents(game models.Game, amount int64) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    fmt.Sprintf("%s Again (%s)", game.Emoji(), common.FormatAmount(amount)),
					Style:    discordgo.PrimaryButton,
					CustomID: customIDPlayAgain,
				},
			},
		},
	}
}

// BuildRulesEmbed lists every game with its winning draws
func BuildRulesEmbed(minBet, maxBet int64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📜 Rules",
		Description: fmt.Sprintf("Stakes from **%s** to **%s**. Any draw not listed loses the stake.", common.FormatAmount(minBet), common.FormatAmount(maxBet)),
		Color:       common.ColorPrimary,
	}

	for _, game := range models.Games() {
		rules := service.PayoutRules(game)
		draws := make([]int, 0, len(rules))
		for draw := range rules {
			draws = append(draws, draw)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(draws)))

		lines := make([]string, 0, len(draws))
		for _, draw := range draws {
			outcome := rules[draw]
			lines = append(lines, fmt.Sprintf("`%d` → x%s %s", draw, outcome.Multiplier.String(), outcome.Description))
		}

		lo, hi := game.DrawRange()
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s %s (%d-%d)", game.Emoji(), game.Title(), lo, hi),
			Value: strings.Join(lines, "\n"),
		})
	}

	return embed
}
