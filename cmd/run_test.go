package cmd

import (
	"testing"

	"casinobot/config"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLogging(t *testing.T) {
	originalLevel := log.GetLevel()
	originalFormatter := log.StandardLogger().Formatter
	t.Cleanup(func() {
		log.SetLevel(originalLevel)
		log.SetFormatter(originalFormatter)
	})

	cfg := config.NewTestConfig()
	cfg.LogLevel = "warn"
	cfg.Environment = "production"
	ConfigureLogging(cfg)

	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	cfg.LogLevel = "loud"
	cfg.Environment = "development"
	ConfigureLogging(cfg)

	assert.Equal(t, log.InfoLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
}

func TestAdjustBalance_RejectsBadArguments(t *testing.T) {
	assert.Error(t, AdjustBalance(t.Context(), "abc", "100"))
	assert.Error(t, AdjustBalance(t.Context(), "42", "ten"))
}
