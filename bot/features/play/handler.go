package play

import (
	"context"
	"time"

	"casinobot/bot/common"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// settleGrace is added on top of the reveal delay and draw timeout
const settleGrace = 15 * time.Second

func (f *Feature) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	discordID, user, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	options := common.OptionMap(i.ApplicationCommandData().Options)
	game, err := models.ParseGame(common.StringOption(options, "game", ""))
	if err != nil {
		common.RespondWithError(s, i, common.UserErrorMessage(err))
		return
	}
	amount := common.IntOption(options, "amount", 0)

	f.play(s, i, discordID, user.Username, game, amount)
}

func (f *Feature) handlePlayAgain(s *discordgo.Session, i *discordgo.InteractionCreate) {
	discordID, user, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	current, ok := f.sessions.Get(discordID)
	if !ok || current.SelectedGame == "" {
		common.RespondWithError(s, i, "Session expired. Use /play to start a new game.")
		return
	}

	f.play(s, i, discordID, user.Username, current.SelectedGame, current.LastWager)
}

// play shows the rolling animation, settles the wager and then reveals the result
func (f *Feature) play(s *discordgo.Session, i *discordgo.InteractionCreate, discordID int64, username string, game models.Game, amount int64) {
	ctx, cancel := context.WithTimeout(context.Background(), f.config.RevealDelay+f.config.DrawTimeout+settleGrace)
	defer cancel()

	if _, err := f.users.EnsureUser(ctx, discordID, username); err != nil {
		log.Errorf("Error ensuring user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildRollingEmbed(game, amount), nil, false); err != nil {
		log.Errorf("Error responding to play command: %v", err)
		return
	}

	f.sessions.SelectGame(discordID, game, amount)

	result, err := f.settlement.Settle(ctx, discordID, game, amount)
	if err != nil {
		log.WithFields(log.Fields{
			"discordID": discordID,
			"game":      game,
			"amount":    amount,
			"error":     err,
		}).Warn("Settlement failed")
		common.EditWithError(s, i, common.UserErrorMessage(err))
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, common.InteractionUser(i).ID)
	embed := BuildResultEmbed(displayName, result)
	if err := common.UpdateMessage(s, i, embed, BuildPlayAgainComponents(result.Game, result.Wager)); err != nil {
		log.Errorf("Error updating play message: %v", err)
	}
}

func (f *Feature) handleRules(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := BuildRulesEmbed(f.config.MinBet, f.config.MaxBet)
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to rules command: %v", err)
	}
}
