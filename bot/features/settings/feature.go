package settings

import (
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles per-player settings
type Feature struct {
	userService service.UserService
}

// New creates a new settings feature instance
func New(userService service.UserService) *Feature {
	return &Feature{
		userService: userService,
	}
}

// HandleNickname handles the /nickname command
func (f *Feature) HandleNickname(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleNickname(s, i)
}
