package bot

import (
	"fmt"

	"casinobot/config"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range BuildCommands(b.config) {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.DiscordGuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

// BuildCommands describes every slash command, with limits taken from the config
func BuildCommands(cfg *config.Config) []*discordgo.ApplicationCommand {
	gameChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.Games()))
	for _, game := range models.Games() {
		gameChoices = append(gameChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  game.Emoji() + " " + game.Title(),
			Value: string(game),
		})
	}

	adminPermission := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Wager on a game of chance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "game",
					Description: "Game to play",
					Required:    true,
					Choices:     gameChoices,
				},
				amountOption("Amount to wager", cfg.MinBet, cfg.MaxBet),
			},
		},
		{
			Name:        "rules",
			Description: "Show the payout table of every game",
		},
		{
			Name:        "balance",
			Description: "Check your current balance",
		},
		{
			Name:        "top",
			Description: "Display the richest players",
		},
		{
			Name:        "stats",
			Description: "Display statistics for a player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to check stats for (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "nickname",
			Description: "Set the name shown on the leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "value",
					Description: "3-15 letters, digits, _ or -",
					Required:    true,
				},
			},
		},
		{
			Name:        "deposit",
			Description: "Top up your balance by card",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to deposit", cfg.MinDeposit, cfg.MaxDeposit),
			},
		},
		{
			Name:        "paid",
			Description: "Check whether your last deposit has arrived",
		},
		{
			Name:        "withdraw",
			Description: "Request a payout of your balance",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to withdraw", cfg.MinWithdrawal, 0),
			},
		},
		{
			Name:                     "admin",
			Description:              "Casino administration",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "balance",
					Description: "Show a player's balance",
					Options: []*discordgo.ApplicationCommandOption{
						userOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adjust",
					Description: "Change a player's balance",
					Options: []*discordgo.ApplicationCommandOption{
						userOption(),
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Delta, or the new balance in absolute mode",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "relative (default) or absolute",
							Required:    false,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "relative", Value: "relative"},
								{Name: "absolute", Value: "absolute"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show casino-wide statistics",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "withdrawals",
					Description: "List pending withdrawals",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "complete",
					Description: "Mark a withdrawal as paid out",
					Options: []*discordgo.ApplicationCommandOption{
						withdrawalIDOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reject",
					Description: "Reject a withdrawal and refund the player",
					Options: []*discordgo.ApplicationCommandOption{
						withdrawalIDOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "broadcast",
					Description: "Send a direct message to every player",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "Announcement text",
							Required:    true,
							MaxLength:   1800,
						},
					},
				},
			},
		},
	}
}

// amountOption builds a required integer option; max <= 0 leaves it unbounded
func amountOption(description string, min, max int64) *discordgo.ApplicationCommandOption {
	minValue := float64(min)
	opt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		Required:    true,
		MinValue:    &minValue,
	}
	if max > 0 {
		opt.MaxValue = float64(max)
	}
	return opt
}

func userOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Player",
		Required:    true,
	}
}

func withdrawalIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "id",
		Description: "Withdrawal request ID",
		Required:    true,
	}
}
