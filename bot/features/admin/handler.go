package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"casinobot/bot/common"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate, options optionMap) {
	ctx := context.Background()

	targetID, ok := userOption(options)
	if !ok {
		common.RespondWithError(s, i, "Please choose a user.")
		return
	}

	user, err := f.users.GetUser(ctx, targetID)
	if errors.Is(err, models.ErrUserNotFound) {
		common.RespondWithError(s, i, "That player has no account.")
		return
	}
	if err != nil {
		log.Errorf("Error getting user %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("<@%d> balance: **%s** (reserved %s)",
		targetID, common.FormatAmount(user.Balance), common.FormatAmount(user.Reserved)), true)
}

func (f *Feature) handleAdjust(s *discordgo.Session, i *discordgo.InteractionCreate, options optionMap) {
	ctx := context.Background()

	targetID, ok := userOption(options)
	if !ok {
		common.RespondWithError(s, i, "Please choose a user.")
		return
	}
	amount := common.IntOption(options, "amount", 0)
	relative := common.StringOption(options, "mode", "relative") != "absolute"

	user, err := f.users.AdjustBalance(ctx, targetID, amount, relative)
	if err != nil {
		log.WithFields(log.Fields{
			"discordID": targetID,
			"amount":    amount,
			"relative":  relative,
			"error":     err,
		}).Warn("Admin balance adjustment failed")
		common.RespondWithError(s, i, common.UserErrorMessage(err))
		return
	}

	log.WithFields(log.Fields{
		"discordID":  targetID,
		"amount":     amount,
		"relative":   relative,
		"newBalance": user.Balance,
	}).Info("Admin adjusted balance")

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ <@%d> balance is now **%s**",
		targetID, common.FormatAmount(user.Balance)), true)
}

func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	stats, err := f.users.GlobalStats(context.Background())
	if err != nil {
		log.Errorf("Error getting global stats: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve stats. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildGlobalStatsEmbed(stats), nil, true); err != nil {
		log.Errorf("Error responding to admin stats: %v", err)
	}
}

func (f *Feature) handleWithdrawals(s *discordgo.Session, i *discordgo.InteractionCreate) {
	pending, err := f.withdrawals.PendingWithdrawals(context.Background())
	if err != nil {
		log.Errorf("Error listing pending withdrawals: %v", err)
		common.RespondWithError(s, i, "Unable to list withdrawals. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildPendingWithdrawalsEmbed(pending), nil, true); err != nil {
		log.Errorf("Error responding to admin withdrawals: %v", err)
	}
}

func (f *Feature) handleResolve(s *discordgo.Session, i *discordgo.InteractionCreate, options optionMap, adminID int64, complete bool) {
	ctx := context.Background()
	id := common.IntOption(options, "id", 0)

	var (
		request *models.WithdrawalRequest
		err     error
	)
	if complete {
		request, err = f.withdrawals.CompleteWithdrawal(ctx, id, adminID)
	} else {
		request, err = f.withdrawals.RejectWithdrawal(ctx, id, adminID)
	}
	if err != nil {
		log.WithFields(log.Fields{
			"withdrawalID": id,
			"complete":     complete,
			"error":        err,
		}).Warn("Withdrawal resolution failed")
		common.RespondWithError(s, i, common.UserErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, FormatResolution(request), true)
}

func userOption(options optionMap) (int64, bool) {
	opt, ok := options["user"]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(opt.UserValue(nil).ID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// FormatResolution describes a resolved withdrawal
func FormatResolution(request *models.WithdrawalRequest) string {
	if request.Status == models.WithdrawalStatusRejected {
		return fmt.Sprintf("↩️ Withdrawal #%d rejected, %s returned to <@%d>",
			request.ID, common.FormatAmount(request.Amount), request.DiscordID)
	}
	return fmt.Sprintf("✅ Withdrawal #%d of %s to <@%d> marked as paid",
		request.ID, common.FormatAmount(request.Amount), request.DiscordID)
}

// BuildGlobalStatsEmbed summarises the whole casino
func BuildGlobalStatsEmbed(stats *models.GlobalStats) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📊 Casino stats",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Players", Value: strconv.FormatInt(stats.TotalUsers, 10), Inline: true},
			{Name: "Player balances", Value: common.FormatAmount(stats.TotalBalance), Inline: true},
			{Name: "Games", Value: strconv.FormatInt(stats.TotalGames, 10), Inline: true},
			{Name: "Wagered", Value: common.FormatAmount(stats.TotalWagered), Inline: true},
			{Name: "House profit", Value: common.FormatSigned(stats.HouseProfit), Inline: true},
		},
	}
}

// BuildPendingWithdrawalsEmbed lists the payout queue
func BuildPendingWithdrawalsEmbed(pending []*models.WithdrawalRequest) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏧 Pending withdrawals",
		Color: common.ColorWarning,
	}

	if len(pending) == 0 {
		embed.Description = "Queue is empty"
		embed.Color = common.ColorSuccess
		return embed
	}

	lines := make([]string, 0, len(pending))
	var total int64
	for _, request := range pending {
		total += request.Amount
		lines = append(lines, fmt.Sprintf("`#%d` <@%d> **%s** %s",
			request.ID, request.DiscordID, common.FormatAmount(request.Amount),
			common.FormatDiscordTimestamp(request.CreatedAt, "R")))
	}

	embed.Description = strings.Join(lines, "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%d requests, %s total", len(pending), common.FormatAmount(total)),
	}
	return embed
}

// BuildWithdrawalNotice is the direct message sent to admins for a new request
func BuildWithdrawalNotice(withdrawalID, discordID int64, username string, amount int64) string {
	return fmt.Sprintf("🏧 New withdrawal `#%d`: **%s** for %s (<@%d>)\nUse `/admin complete id:%d` once paid or `/admin reject id:%d` to refund.",
		withdrawalID, common.FormatAmount(amount), username, discordID, withdrawalID, withdrawalID)
}
