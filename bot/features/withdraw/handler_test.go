package withdraw

import (
	"testing"

	"casinobot/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildRequestedEmbed(t *testing.T) {
	embed := BuildRequestedEmbed(&models.WithdrawalRequest{ID: 17, Amount: 2500})

	assert.Contains(t, embed.Description, "2,500 ₽")
	assert.Equal(t, "Request #17", embed.Footer.Text)
}
