package stats

import (
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the leaderboard and player statistics feature
type Feature struct {
	userService       service.UserService
	settlementService service.SettlementService
}

// New creates a new stats feature instance
func New(userService service.UserService, settlementService service.SettlementService) *Feature {
	return &Feature{
		userService:       userService,
		settlementService: settlementService,
	}
}

// HandleTop handles the /top command
func (f *Feature) HandleTop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleTop(s, i)
}

// HandleStats handles the /stats command
func (f *Feature) HandleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleStats(s, i)
}
