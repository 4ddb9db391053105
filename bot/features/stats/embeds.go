package stats

import (
	"fmt"
	"strings"

	"casinobot/bot/common"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
)

// BuildLeaderboardEmbed creates the top players embed
func BuildLeaderboardEmbed(entries []*models.LeaderboardEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Top Players",
		Color: common.ColorPrimary,
	}

	if len(entries) == 0 {
		embed.Description = "No players yet"
		return embed
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		var medal string
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		default:
			medal = fmt.Sprintf("%d.", entry.Rank)
		}
		lines = append(lines, fmt.Sprintf("%s **%s** - %s", medal, entry.DisplayName, common.FormatAmount(entry.Balance)))
	}

	embed.Description = strings.Join(lines, "\n")
	return embed
}

// BuildUserStatsEmbed creates the player statistics embed
func BuildUserStatsEmbed(user *models.User, betStats *models.BetStats, recent []*models.BalanceHistory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 Stats for %s", user.DisplayName()),
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "💰 Balance",
				Value:  fmt.Sprintf("**%s**", common.FormatAmount(user.Balance)),
				Inline: true,
			},
		},
	}

	if user.GamesPlayed == 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🎲 Games",
			Value:  "No games played yet",
			Inline: true,
		})
		appendRecentTransactions(embed, recent)
		return embed
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name: "🎲 Games",
			Value: fmt.Sprintf("Played: **%d**\nWon: **%d** (%.1f%%)",
				user.GamesPlayed, user.GamesWon, user.WinRate()),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name: "📈 Results",
			Value: fmt.Sprintf("Wagered: **%s**\nNet: **%s**",
				common.FormatAmount(user.TotalWagered), common.FormatSigned(user.NetProfit)),
			Inline: true,
		},
	)

	if betStats != nil && betStats.BiggestWin > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🔥 Biggest win",
			Value:  common.FormatSigned(betStats.BiggestWin),
			Inline: true,
		})
	}

	appendRecentTransactions(embed, recent)
	return embed
}

func appendRecentTransactions(embed *discordgo.MessageEmbed, recent []*models.BalanceHistory) {
	if len(recent) == 0 {
		return
	}
	lines := make([]string, 0, len(recent))
	for _, h := range recent {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			common.FormatDiscordTimestamp(h.CreatedAt, "R"),
			TransactionLabel(h.TransactionType),
			common.FormatSigned(h.ChangeAmount)))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "🧾 Recent transactions",
		Value: strings.Join(lines, "\n"),
	})
}

// TransactionLabel names a balance change for players
func TransactionLabel(t models.TransactionType) string {
	switch t {
	case models.TransactionTypeBetWin:
		return "Win"
	case models.TransactionTypeBetLoss:
		return "Loss"
	case models.TransactionTypeBetPush:
		return "Push"
	case models.TransactionTypeDeposit:
		return "Deposit"
	case models.TransactionTypeWithdrawal:
		return "Withdrawal"
	case models.TransactionTypeWithdrawalRefund:
		return "Withdrawal refund"
	case models.TransactionTypeAdminAdjust:
		return "Adjustment"
	default:
		return string(t)
	}
}
