package testutil

import (
	"context"
	"testing"

	"casinobot/database"
	"casinobot/models"

	"github.com/stretchr/testify/require"
)

// CreateTestUser inserts a user with the given balance directly through SQL
func CreateTestUser(t *testing.T, db *database.DB, discordID int64, username string, balance int64) *models.User {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO users (discord_id, username, balance) VALUES ($1, $2, $3)`,
		discordID, username, balance,
	)
	require.NoError(t, err)

	return &models.User{
		DiscordID:        discordID,
		Username:         username,
		Balance:          balance,
		AvailableBalance: balance,
	}
}

// CreateTestBalanceHistory builds an unsaved balance history entry
func CreateTestBalanceHistory(discordID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestBalanceHistoryWithAmounts builds an unsaved balance history entry with specific amounts
func CreateTestBalanceHistoryWithAmounts(discordID int64, before, after int64, transactionType models.TransactionType) *models.BalanceHistory {
	history := CreateTestBalanceHistory(discordID, transactionType)
	history.BalanceBefore = before
	history.BalanceAfter = after
	history.ChangeAmount = after - before
	return history
}

// CreateTestPaymentRequest builds an unsaved pending deposit request
func CreateTestPaymentRequest(discordID int64, reference string, amount int64) *models.PaymentRequest {
	return &models.PaymentRequest{
		Reference: reference,
		DiscordID: discordID,
		Amount:    amount,
		Status:    models.PaymentStatusPending,
	}
}
