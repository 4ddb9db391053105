package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, int64(1), cfg.MinBet)
	assert.Equal(t, int64(100000), cfg.MaxBet)
	assert.Equal(t, int64(2), cfg.MinDeposit)
	assert.Equal(t, int64(100000), cfg.MaxDeposit)
	assert.Equal(t, int64(500), cfg.MinWithdrawal)
	assert.Equal(t, 3500*time.Millisecond, cfg.RevealDelay)
	assert.Equal(t, 15*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, "casino", cfg.PaymentLabelPrefix)
	assert.Equal(t, "https://yoomoney.ru", cfg.YooMoneyBaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("MIN_BET", "10")
	t.Setenv("MAX_BET", "5000")
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("ADMIN_DISCORD_IDS", "111, 222,not-a-number,,333")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, int64(10), cfg.MinBet)
	assert.Equal(t, int64(5000), cfg.MaxBet)
	assert.Equal(t, 3*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, []int64{111, 222, 333}, cfg.AdminDiscordIDs)
	assert.True(t, cfg.IsAdmin(222))
	assert.False(t, cfg.IsAdmin(444))
}

func TestLoad_RequiredOutsideTest(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/casino")

	_, err := load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN is required")

	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("YOOMONEY_WALLET", "")
	_, err = load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YOOMONEY_WALLET is required")
}

func TestLoad_InvalidBounds(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("MIN_BET", "100")
	t.Setenv("MAX_BET", "10")

	_, err := load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bet bounds")
}

func TestSetTestConfig(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg := NewTestConfig()
	cfg.MaxBet = 42
	SetTestConfig(cfg)

	assert.Equal(t, int64(42), Get().MaxBet)
}

func TestLoadWithoutValidation(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("YOOMONEY_CLIENT_ID", "client")

	cfg, err := LoadWithoutValidation()
	require.NoError(t, err)
	assert.Equal(t, "client", cfg.YooMoneyClientID)
}

func TestLoad_RejectsUnusableSettings(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{"zero sweep interval", "SWEEP_INTERVAL", "0s", "SWEEP_INTERVAL must be positive"},
		{"negative sweep interval", "SWEEP_INTERVAL", "-1m", "SWEEP_INTERVAL must be positive"},
		{"zero draw timeout", "DRAW_TIMEOUT", "0s", "DRAW_TIMEOUT must be positive"},
		{"zero payment timeout", "PAYMENT_TIMEOUT", "0s", "PAYMENT_TIMEOUT must be positive"},
		{"zero reservation ttl", "RESERVATION_TTL", "0s", "RESERVATION_TTL must be positive"},
		{"negative reveal delay", "REVEAL_DELAY", "-1s", "REVEAL_DELAY must not be negative"},
		{"fee tolerance at 100", "PAYMENT_FEE_TOLERANCE", "100", "PAYMENT_FEE_TOLERANCE"},
		{"fee tolerance above 100", "PAYMENT_FEE_TOLERANCE", "150", "PAYMENT_FEE_TOLERANCE"},
		{"negative fee tolerance", "PAYMENT_FEE_TOLERANCE", "-1", "PAYMENT_FEE_TOLERANCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "test")
			t.Setenv(tt.key, tt.value)

			_, err := load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoad_AcceptsBoundarySettings(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("REVEAL_DELAY", "0s")
	t.Setenv("PAYMENT_FEE_TOLERANCE", "0")

	cfg, err := load()
	require.NoError(t, err)
	assert.Zero(t, cfg.RevealDelay)
	assert.Zero(t, cfg.PaymentFeeTolerance)

	t.Setenv("PAYMENT_FEE_TOLERANCE", "99")
	_, err = load()
	assert.NoError(t, err)
}

func TestNewTestConfig_IsValid(t *testing.T) {
	assert.NoError(t, NewTestConfig().validate())
}
