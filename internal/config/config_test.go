package config

import (
	"log/slog"
	"testing"
	"time"

	"example.com/mastermind/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "HTTP_ADDR", "REDIS_ADDR", "GAME_STRATEGY", "GAME_SOURCE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	c, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Empty(t, c.Redis.Addr)
	assert.Equal(t, 2*time.Second, c.RandomOrg.Timeout)
	assert.Equal(t, slog.LevelInfo, c.LogLevel())

	d, err := c.GameDefaults()
	require.NoError(t, err)
	assert.Equal(t, game.Settings{
		CodeLength:  4,
		NumColors:   8,
		MaxAttempts: 10,
		Strategy:    game.Standard,
		Source:      game.SourceRemote,
	}, d)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("GAME_CODE_LENGTH", "6")
	t.Setenv("GAME_STRATEGY", "higher_lower")
	t.Setenv("GAME_SOURCE", "local")
	t.Setenv("SESSION_IDLE_TTL", "5m")

	c, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.HTTP.Addr)
	assert.Equal(t, slog.LevelDebug, c.LogLevel())
	assert.Equal(t, "redis:6379", c.Redis.Addr)
	assert.Equal(t, 5*time.Minute, c.Session.IdleTTL)

	d, err := c.GameDefaults()
	require.NoError(t, err)
	assert.Equal(t, 6, d.CodeLength)
	assert.Equal(t, game.PerPosition, d.Strategy)
	assert.Equal(t, game.SourceLocal, d.Source)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{name: "log_format", key: "LOG_FORMAT", val: "xml"},
		{name: "log_level", key: "LOG_LEVEL", val: "loud"},
		{name: "strategy", key: "GAME_STRATEGY", val: "bulls"},
		{name: "source", key: "GAME_SOURCE", val: "dice"},
		{name: "literal_default", key: "GAME_SOURCE", val: "literal"},
		{name: "code_length", key: "GAME_CODE_LENGTH", val: "0"},
		{name: "num_colors", key: "GAME_NUM_COLORS", val: "1"},
		{name: "max_attempts", key: "GAME_MAX_ATTEMPTS", val: "-3"},
		{name: "rps", key: "RANDOM_ORG_RPS", val: "-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := LoadFromEnv()
			require.Error(t, err)
		})
	}
}
