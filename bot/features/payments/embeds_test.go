package payments

import (
	"testing"
	"time"

	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDepositComponents(t *testing.T) {
	components := BuildDepositComponents("https://yoomoney.ru/quickpay/confirm.xml?label=x")
	require.Len(t, components, 1)

	row := components[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)

	link := row.Components[0].(discordgo.Button)
	assert.Equal(t, discordgo.LinkButton, link.Style)
	assert.Equal(t, "https://yoomoney.ru/quickpay/confirm.xml?label=x", link.URL)

	paid := row.Components[1].(discordgo.Button)
	assert.True(t, OwnsComponent(paid.CustomID))
}

func TestBuildDepositComponents_WithoutURL(t *testing.T) {
	row := BuildDepositComponents("")[0].(discordgo.ActionsRow)
	assert.Len(t, row.Components, 1)
}

func TestBuildDepositEmbed(t *testing.T) {
	created := time.Unix(1760000000, 0)
	request := &models.PaymentRequest{Reference: "casino_1_abcdef12", Amount: 1500, CreatedAt: created}

	embed := BuildDepositEmbed(request, time.Hour)
	assert.Contains(t, embed.Description, "1,500 ₽")
	assert.Contains(t, embed.Description, "<t:1760003600:R>")
	assert.Equal(t, "Reference: casino_1_abcdef12", embed.Footer.Text)
}

func TestBuildConfirmationEmbed(t *testing.T) {
	request := &models.PaymentRequest{Reference: "casino_1_abcdef12", Amount: 500}

	pending := BuildConfirmationEmbed(&models.DepositResult{Matched: false, Request: request})
	assert.Contains(t, pending.Title, "not received")

	credited := BuildConfirmationEmbed(&models.DepositResult{Matched: true, Request: request, NewBalance: 1700})
	assert.Contains(t, credited.Description, "500 ₽")
	require.Len(t, credited.Fields, 1)
	assert.Equal(t, "**1,700 ₽**", credited.Fields[0].Value)
}
