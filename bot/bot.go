package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"casinobot/bot/features/admin"
	"casinobot/bot/features/balance"
	"casinobot/bot/features/payments"
	"casinobot/bot/features/play"
	"casinobot/bot/features/settings"
	"casinobot/bot/features/stats"
	"casinobot/bot/features/withdraw"
	"casinobot/bot/session"
	"casinobot/config"
	"casinobot/events"
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

const (
	sessionCleanupInterval = 30 * time.Minute
	sessionMaxAge          = time.Hour
)

// Services groups the domain services the bot front end drives
type Services struct {
	Users       service.UserService
	Settlement  service.SettlementService
	Payments    service.PaymentService
	Withdrawals service.WithdrawalService
}

type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	sessions *session.Store
	eventBus *events.Bus
	stop     chan struct{}

	play     *play.Feature
	balance  *balance.Feature
	stats    *stats.Feature
	settings *settings.Feature
	payments *payments.Feature
	withdraw *withdraw.Feature
	admin    *admin.Feature
}

func New(cfg *config.Config, services Services, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	sessions := session.NewStore()
	bot := &Bot{
		config:   cfg,
		session:  dg,
		sessions: sessions,
		eventBus: eventBus,
		stop:     make(chan struct{}),
		play:     play.New(services.Settlement, services.Users, sessions, cfg),
		balance:  balance.New(services.Users),
		stats:    stats.New(services.Users, services.Settlement),
		settings: settings.New(services.Users),
		payments: payments.New(services.Payments, services.Users, sessions, cfg),
		withdraw: withdraw.New(services.Withdrawals, services.Users),
		admin:    admin.New(services.Users, services.Withdrawals, cfg),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleComponents)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start periodic cleanup of idle player sessions
	go bot.startSessionCleanup()

	if len(cfg.AdminDiscordIDs) > 0 {
		eventBus.Subscribe(events.EventTypeWithdrawalRequested, bot.notifyAdmins)
		log.WithField("admins", len(cfg.AdminDiscordIDs)).Info("Withdrawal notifications enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	close(b.stop)
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "play":
		b.play.HandleCommand(s, i)
	case "rules":
		b.play.HandleRules(s, i)
	case "balance":
		b.balance.HandleCommand(s, i)
	case "top":
		b.stats.HandleTop(s, i)
	case "stats":
		b.stats.HandleStats(s, i)
	case "nickname":
		b.settings.HandleNickname(s, i)
	case "deposit":
		b.payments.HandleDeposit(s, i)
	case "paid":
		b.payments.HandlePaid(s, i)
	case "withdraw":
		b.withdraw.HandleCommand(s, i)
	case "admin":
		b.admin.HandleCommand(s, i)
	}
}

func (b *Bot) handleComponents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case play.OwnsComponent(customID):
		b.play.HandleInteraction(s, i)
	case payments.OwnsComponent(customID):
		b.payments.HandleInteraction(s, i)
	}
}

// notifyAdmins sends every configured admin a direct message about a new withdrawal
func (b *Bot) notifyAdmins(ctx context.Context, event events.Event) {
	requested, ok := event.(events.WithdrawalRequestedEvent)
	if !ok {
		return
	}

	message := admin.BuildWithdrawalNotice(requested.WithdrawalID, requested.UserID, requested.Username, requested.Amount)
	for _, adminID := range b.config.AdminDiscordIDs {
		channel, err := b.session.UserChannelCreate(strconv.FormatInt(adminID, 10))
		if err != nil {
			log.WithFields(log.Fields{
				"adminID":      adminID,
				"withdrawalID": requested.WithdrawalID,
				"error":        err,
			}).Error("Failed to open admin DM channel")
			continue
		}
		if _, err := b.session.ChannelMessageSend(channel.ID, message); err != nil {
			log.WithFields(log.Fields{
				"adminID":      adminID,
				"withdrawalID": requested.WithdrawalID,
				"error":        err,
			}).Error("Failed to notify admin about withdrawal")
		}
	}
}

// startSessionCleanup runs periodic cleanup of idle player sessions
func (b *Bot) startSessionCleanup() {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := b.sessions.Cleanup(sessionMaxAge); removed > 0 {
				log.WithField("removed", removed).Debug("Cleaned up idle sessions")
			}
		case <-b.stop:
			return
		}
	}
}
