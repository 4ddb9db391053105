package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBalance(tt.input))
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+200 ₽", FormatSigned(200))
	assert.Equal(t, "-1,000 ₽", FormatSigned(-1000))
	assert.Equal(t, "0 ₽", FormatSigned(0))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1760000000, 0)
	assert.Equal(t, "<t:1760000000:R>", FormatDiscordTimestamp(ts, "R"))
}
