package oracle

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"casinobot/models"
)

// CryptoOracle draws uniformly over a game's range from a cryptographic source
type CryptoOracle struct {
	source io.Reader
}

// NewCryptoOracle creates an oracle backed by crypto/rand
func NewCryptoOracle() *CryptoOracle {
	return &CryptoOracle{source: rand.Reader}
}

// Draw returns a uniform value in the game's inclusive draw range
func (o *CryptoOracle) Draw(ctx context.Context, game models.Game) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !game.Valid() {
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownGame, game)
	}

	lo, hi := game.DrawRange()
	n, err := rand.Int(o.source, big.NewInt(int64(hi-lo+1)))
	if err != nil {
		return 0, fmt.Errorf("failed to draw for %s: %w", game, err)
	}
	return lo + int(n.Int64()), nil
}
