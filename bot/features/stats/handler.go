package stats

import (
	"context"
	"errors"
	"strconv"

	"casinobot/bot/common"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	leaderboardSize        = 10
	recentTransactionsSize = 5
)

// handleTop shows the richest players
func (f *Feature) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	entries, err := f.userService.TopByBalance(ctx, leaderboardSize)
	if err != nil {
		log.Errorf("Error getting leaderboard: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildLeaderboardEmbed(entries), nil, false); err != nil {
		log.Errorf("Error responding to top command: %v", err)
	}
}

// handleStats shows the statistics of the caller or of the given user
func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	callerID, _, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	targetID := callerID
	options := common.OptionMap(i.ApplicationCommandData().Options)
	if opt, ok := options["user"]; ok {
		target := opt.UserValue(nil)
		parsed, err := strconv.ParseInt(target.ID, 10, 64)
		if err != nil {
			common.RespondWithError(s, i, "Invalid user.")
			return
		}
		targetID = parsed
	}

	user, err := f.userService.GetUser(ctx, targetID)
	if errors.Is(err, models.ErrUserNotFound) {
		if targetID == callerID {
			common.RespondWithError(s, i, "You haven't played yet. Use /balance to create an account.")
		} else {
			common.RespondWithError(s, i, "That player has no account.")
		}
		return
	}
	if err != nil {
		log.Errorf("Error getting user %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to retrieve stats. Please try again.")
		return
	}

	betStats, err := f.settlementService.GetBetStats(ctx, targetID)
	if err != nil {
		log.Errorf("Error getting bet stats for user %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to retrieve stats. Please try again.")
		return
	}

	// Other players' ledgers stay private
	var recent []*models.BalanceHistory
	if targetID == callerID {
		recent, err = f.userService.RecentTransactions(ctx, targetID, recentTransactionsSize)
		if err != nil {
			log.Warnf("Error getting recent transactions for user %d: %v", targetID, err)
		}
	}

	if err := common.RespondWithEmbed(s, i, BuildUserStatsEmbed(user, betStats, recent), nil, false); err != nil {
		log.Errorf("Error responding to stats command: %v", err)
	}
}
