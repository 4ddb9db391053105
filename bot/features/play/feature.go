package play

import (
	"casinobot/bot/session"
	"casinobot/config"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

const customIDPlayAgain = "play_again"

// Feature runs the chance games
type Feature struct {
	settlement service.SettlementService
	users      service.UserService
	sessions   *session.Store
	config     *config.Config
}

// New creates a new play feature instance
func New(settlement service.SettlementService, users service.UserService, sessions *session.Store, cfg *config.Config) *Feature {
	return &Feature{
		settlement: settlement,
		users:      users,
		sessions:   sessions,
		config:     cfg,
	}
}

// HandleCommand handles the /play command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePlay(s, i)
}

// HandleRules handles the /rules command
func (f *Feature) HandleRules(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleRules(s, i)
}

// HandleInteraction handles the play-again button
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.MessageComponentData().CustomID == customIDPlayAgain {
		f.handlePlayAgain(s, i)
	}
}

// OwnsComponent reports whether the custom ID belongs to this feature
func OwnsComponent(customID string) bool {
	return customID == customIDPlayAgain
}
