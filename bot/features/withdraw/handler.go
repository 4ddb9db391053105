package withdraw

import (
	"context"
	"fmt"

	"casinobot/bot/common"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, user, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	options := common.OptionMap(i.ApplicationCommandData().Options)
	amount := common.IntOption(options, "amount", 0)

	if _, err := f.users.EnsureUser(ctx, discordID, user.Username); err != nil {
		log.Errorf("Error ensuring user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	request, err := f.withdrawals.RequestWithdrawal(ctx, discordID, amount)
	if err != nil {
		log.WithFields(log.Fields{
			"discordID": discordID,
			"amount":    amount,
			"error":     err,
		}).Warn("Withdrawal request rejected")
		common.RespondWithError(s, i, common.UserErrorMessage(err))
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildRequestedEmbed(request), nil, true); err != nil {
		log.Errorf("Error responding to withdraw command: %v", err)
	}
}

// BuildRequestedEmbed confirms a queued withdrawal to the player
func BuildRequestedEmbed(request *models.WithdrawalRequest) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🏧 Withdrawal requested",
		Description: fmt.Sprintf(
			"**%s** has been taken from your balance and queued for payout.\nAn administrator will contact you to complete it.",
			common.FormatAmount(request.Amount),
		),
		Color: common.ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Request #%d", request.ID),
		},
	}
}
