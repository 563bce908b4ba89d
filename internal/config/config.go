package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"example.com/mastermind/internal/game"
)

// Config describes all runtime settings for the server. It is loaded once in
// main, validated, and passed down explicitly.
type Config struct {
	Env string // dev|stage|prod

	Log struct {
		Format string // text|json
		Level  string // debug|info|warn|error
	}

	HTTP struct {
		Addr              string
		ReadHeaderTimeout time.Duration
		IdleTimeout       time.Duration
		ShutdownTimeout   time.Duration
	}

	// Redis is optional. An empty Addr keeps the quota cache in memory.
	Redis struct {
		Addr     string
		DB       int
		QuotaTTL time.Duration
	}

	RandomOrg struct {
		URL           string
		Timeout       time.Duration
		RatePerSecond float64
	}

	Game struct {
		CodeLength  int
		NumColors   int
		MaxAttempts int
		Strategy    string
		Source      string
	}

	Session struct {
		IdleTTL       time.Duration
		SweepInterval time.Duration
	}
}

func LoadFromEnv() (Config, error) {
	var c Config

	c.Env = envString("APP_ENV", "dev")
	c.Log.Format = envString("LOG_FORMAT", "text")
	c.Log.Level = envString("LOG_LEVEL", "info")

	port := envString("PORT", "8080")
	c.HTTP.Addr = envString("HTTP_ADDR", ":"+port)
	c.HTTP.ReadHeaderTimeout = envDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second)
	c.HTTP.IdleTimeout = envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)
	c.HTTP.ShutdownTimeout = envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)

	c.Redis.Addr = envString("REDIS_ADDR", "")
	c.Redis.DB = envInt("REDIS_DB", 0)
	c.Redis.QuotaTTL = envDuration("QUOTA_CACHE_TTL", 10*time.Minute)

	c.RandomOrg.URL = envString("RANDOM_ORG_URL", "https://www.random.org")
	c.RandomOrg.Timeout = envDuration("RANDOM_ORG_TIMEOUT", game.DefaultSupplyTimeout)
	c.RandomOrg.RatePerSecond = envFloat("RANDOM_ORG_RPS", 1)

	c.Game.CodeLength = envInt("GAME_CODE_LENGTH", game.DefaultCodeLength)
	c.Game.NumColors = envInt("GAME_NUM_COLORS", game.DefaultNumColors)
	c.Game.MaxAttempts = envInt("GAME_MAX_ATTEMPTS", game.DefaultMaxAttempts)
	c.Game.Strategy = envString("GAME_STRATEGY", game.Standard.String())
	c.Game.Source = envString("GAME_SOURCE", string(game.SourceRemote))

	c.Session.IdleTTL = envDuration("SESSION_IDLE_TTL", 30*time.Minute)
	c.Session.SweepInterval = envDuration("SESSION_SWEEP_INTERVAL", time.Minute)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("HTTP addr is empty")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want text|json)", c.Log.Format)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.RandomOrg.URL == "" {
		return errors.New("RANDOM_ORG_URL is empty")
	}
	if c.RandomOrg.Timeout <= 0 {
		return fmt.Errorf("RANDOM_ORG_TIMEOUT must be positive, got %s", c.RandomOrg.Timeout)
	}
	if c.RandomOrg.RatePerSecond < 0 {
		return fmt.Errorf("RANDOM_ORG_RPS must not be negative, got %v", c.RandomOrg.RatePerSecond)
	}
	if c.Session.IdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must not be negative, got %s", c.Session.IdleTTL)
	}

	// Run the game defaults through the same checks a create request gets.
	defaults, err := c.GameDefaults()
	if err != nil {
		return err
	}
	b := game.NewBuilder().
		CodeLength(defaults.CodeLength).
		NumColors(defaults.NumColors).
		MaxAttempts(defaults.MaxAttempts).
		Strategy(defaults.Strategy)
	if err := b.Err(); err != nil {
		return fmt.Errorf("game defaults: %w", err)
	}
	if defaults.Source == game.SourceLiteral {
		return errors.New("GAME_SOURCE=literal needs a secret per game and cannot be a default")
	}
	return nil
}

// GameDefaults converts the GAME_* settings for the session service.
func (c Config) GameDefaults() (game.Settings, error) {
	strategy, err := game.ParseStrategy(c.Game.Strategy)
	if err != nil {
		return game.Settings{}, fmt.Errorf("GAME_STRATEGY: %w", err)
	}
	source, err := game.ParseSecretSource(c.Game.Source)
	if err != nil {
		return game.Settings{}, fmt.Errorf("GAME_SOURCE: %w", err)
	}
	return game.Settings{
		CodeLength:  c.Game.CodeLength,
		NumColors:   c.Game.NumColors,
		MaxAttempts: c.Game.MaxAttempts,
		Strategy:    strategy,
		Source:      source,
	}, nil
}

// LogLevel returns the parsed LOG_LEVEL; Validate has already rejected bad values.
func (c Config) LogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unsupported LOG_LEVEL=%q (want debug|info|warn|error)", s)
	}
	return lvl, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
