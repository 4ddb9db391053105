package payments

import (
	"fmt"
	"time"

	"casinobot/bot/common"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
)

// BuildDepositEmbed explains how to pay a freshly created request
func BuildDepositEmbed(request *models.PaymentRequest, ttl time.Duration) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💳 Deposit",
		Description: fmt.Sprintf(
			"Pay **%s** by card using the button below.\nOnce the payment goes through, press **I've paid** or use /paid.\n\nThe link expires %s.",
			common.FormatAmount(request.Amount),
			common.FormatDiscordTimestamp(request.CreatedAt.Add(ttl), "R"),
		),
		Color: common.ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Reference: " + request.Reference,
		},
	}
}

// BuildDepositComponents links to the checkout page and offers the confirmation button
func BuildDepositComponents(paymentURL string) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{}
	if paymentURL != "" {
		buttons = append(buttons, discordgo.Button{
			Label: "Pay by card",
			Style: discordgo.LinkButton,
			URL:   paymentURL,
		})
	}
	buttons = append(buttons, discordgo.Button{
		Label:    "I've paid",
		Style:    discordgo.SuccessButton,
		CustomID: customIDDepositPaid,
	})

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

// BuildConfirmationEmbed reports the outcome of a confirmation attempt
func BuildConfirmationEmbed(result *models.DepositResult) *discordgo.MessageEmbed {
	if !result.Matched {
		return &discordgo.MessageEmbed{
			Title:       "⏳ Payment not received yet",
			Description: "The payment has not arrived yet. Card payments can take a few minutes, try again shortly.",
			Color:       common.ColorWarning,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Reference: " + result.Request.Reference,
			},
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "✅ Deposit credited",
		Description: fmt.Sprintf("**%s** added to your balance.", common.FormatAmount(result.Request.Amount)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Balance", Value: fmt.Sprintf("**%s**", common.FormatAmount(result.NewBalance))},
		},
	}
}
