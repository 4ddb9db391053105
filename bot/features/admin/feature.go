package admin

import (
	"casinobot/bot/common"
	"casinobot/config"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature exposes operator commands restricted to configured admins
type Feature struct {
	users       service.UserService
	withdrawals service.WithdrawalService
	config      *config.Config
}

// New creates a new admin feature instance
func New(users service.UserService, withdrawals service.WithdrawalService, cfg *config.Config) *Feature {
	return &Feature{
		users:       users,
		withdrawals: withdrawals,
		config:      cfg,
	}
}

// HandleCommand routes /admin subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	adminID, _, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if !f.config.IsAdmin(adminID) {
		log.WithField("discordID", adminID).Warn("Non-admin attempted an admin command")
		common.RespondWithError(s, i, "You are not allowed to use this command.")
		return
	}

	name, options := common.Subcommand(i.ApplicationCommandData())
	switch name {
	case "balance":
		f.handleBalance(s, i, options)
	case "adjust":
		f.handleAdjust(s, i, options)
	case "stats":
		f.handleStats(s, i)
	case "withdrawals":
		f.handleWithdrawals(s, i)
	case "complete":
		f.handleResolve(s, i, options, adminID, true)
	case "reject":
		f.handleResolve(s, i, options, adminID, false)
	case "broadcast":
		f.handleBroadcast(s, i, options, adminID)
	default:
		common.RespondWithError(s, i, "Unknown admin command.")
	}
}
