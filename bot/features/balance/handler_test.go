package balance

import (
	"testing"

	"casinobot/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalanceMessage(t *testing.T) {
	t.Run("plain balance", func(t *testing.T) {
		msg := FormatBalanceMessage("player", &models.User{Balance: 12500})
		assert.Equal(t, "player, your current balance: **12,500 ₽**", msg)
	})

	t.Run("reserved funds are mentioned", func(t *testing.T) {
		msg := FormatBalanceMessage("player", &models.User{Balance: 1000, Reserved: 100})
		assert.Contains(t, msg, "100 ₽ is held")
	})

	t.Run("empty wallet suggests a deposit", func(t *testing.T) {
		msg := FormatBalanceMessage("player", &models.User{})
		assert.Contains(t, msg, "/deposit")
	})
}
