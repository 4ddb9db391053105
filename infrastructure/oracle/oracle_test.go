package oracle

import (
	"bytes"
	"context"
	"testing"

	"casinobot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoOracle_DrawStaysInRange(t *testing.T) {
	oracle := NewCryptoOracle()
	ctx := context.Background()

	for _, game := range models.Games() {
		t.Run(string(game), func(t *testing.T) {
			lo, hi := game.DrawRange()
			seen := make(map[int]bool)
			for i := 0; i < 2000; i++ {
				draw, err := oracle.Draw(ctx, game)
				require.NoError(t, err)
				require.GreaterOrEqual(t, draw, lo)
				require.LessOrEqual(t, draw, hi)
				seen[draw] = true
			}
			assert.Len(t, seen, hi-lo+1, "every face should appear")
		})
	}
}

func TestCryptoOracle_UnknownGame(t *testing.T) {
	_, err := NewCryptoOracle().Draw(context.Background(), models.Game("roulette"))
	assert.ErrorIs(t, err, models.ErrUnknownGame)
}

func TestCryptoOracle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCryptoOracle().Draw(ctx, models.GameDice)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCryptoOracle_SourceFailure(t *testing.T) {
	oracle := &CryptoOracle{source: bytes.NewReader(nil)}

	_, err := oracle.Draw(context.Background(), models.GameSlots)
	assert.Error(t, err)
}
