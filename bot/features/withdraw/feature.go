package withdraw

import (
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature lets players request a cash-out reviewed by an administrator
type Feature struct {
	withdrawals service.WithdrawalService
	users       service.UserService
}

// New creates a new withdraw feature instance
func New(withdrawals service.WithdrawalService, users service.UserService) *Feature {
	return &Feature{
		withdrawals: withdrawals,
		users:       users,
	}
}

// HandleCommand handles the /withdraw command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleWithdraw(s, i)
}
