package balance

import (
	"context"
	"fmt"

	"casinobot/bot/common"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, user, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// First contact creates the account with a zero balance
	account, err := f.userService.EnsureUser(ctx, discordID, user.Username)
	if err != nil {
		log.Errorf("Error getting user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, user.ID)
	common.RespondWithMessage(s, i, FormatBalanceMessage(displayName, account), true)
}

// FormatBalanceMessage renders the balance reply
func FormatBalanceMessage(displayName string, user *models.User) string {
	message := fmt.Sprintf("%s, your current balance: **%s**", displayName, common.FormatAmount(user.Balance))
	if user.Reserved > 0 {
		message += fmt.Sprintf("\n%s is held by games in progress.", common.FormatAmount(user.Reserved))
	}
	if user.Balance == 0 {
		message += "\nTop up with /deposit to start playing."
	}
	return message
}
