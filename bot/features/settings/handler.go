package settings

import (
	"context"
	"fmt"

	"casinobot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleNickname sets the name shown on the leaderboard
func (f *Feature) handleNickname(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, user, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	options := common.OptionMap(i.ApplicationCommandData().Options)
	nickname := common.StringOption(options, "value", "")

	if _, err := f.userService.EnsureUser(ctx, discordID, user.Username); err != nil {
		log.Errorf("Error ensuring user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := f.userService.SetNickname(ctx, discordID, nickname); err != nil {
		log.WithFields(log.Fields{
			"discordID": discordID,
			"error":     err,
		}).Warn("Nickname change rejected")
		common.RespondWithError(s, i, common.UserErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ You will appear on the leaderboard as **%s**", nickname), true)
}
