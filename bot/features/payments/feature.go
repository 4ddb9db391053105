package payments

import (
	"casinobot/bot/session"
	"casinobot/config"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

const customIDDepositPaid = "deposit_paid"

// Feature handles deposits through the payment provider
type Feature struct {
	payments service.PaymentService
	users    service.UserService
	sessions *session.Store
	config   *config.Config
}

// New creates a new payments feature instance
func New(payments service.PaymentService, users service.UserService, sessions *session.Store, cfg *config.Config) *Feature {
	return &Feature{
		payments: payments,
		users:    users,
		sessions: sessions,
		config:   cfg,
	}
}

// HandleDeposit handles the /deposit command
func (f *Feature) HandleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleDeposit(s, i)
}

// HandlePaid handles the /paid command
func (f *Feature) HandlePaid(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePaid(s, i)
}

// HandleInteraction handles the "I've paid" button
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.MessageComponentData().CustomID == customIDDepositPaid {
		f.handlePaid(s, i)
	}
}

// OwnsComponent reports whether the custom ID belongs to this feature
func OwnsComponent(customID string) bool {
	return customID == customIDDepositPaid
}
