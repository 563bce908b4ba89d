package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"example.com/mastermind/internal/app"
	"example.com/mastermind/internal/cli"
	"example.com/mastermind/internal/config"
	"example.com/mastermind/internal/game"
	"example.com/mastermind/internal/randomorg"
	"github.com/spf13/cobra"
)

type playFlags struct {
	length   int
	colors   int
	attempts int
	strategy string
	source   string
	secret   string
}

func newPlayCmd() *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, f)
		},
	}
	cmd.Flags().IntVar(&f.length, "length", 0, "code length (default from GAME_CODE_LENGTH)")
	cmd.Flags().IntVar(&f.colors, "colors", 0, "number of symbols (default from GAME_NUM_COLORS)")
	cmd.Flags().IntVar(&f.attempts, "attempts", 0, "maximum attempts (default from GAME_MAX_ATTEMPTS)")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "feedback strategy: standard, position_count, per_position, exact_only")
	cmd.Flags().StringVar(&f.source, "source", "", "secret source: remote or local")
	cmd.Flags().StringVar(&f.secret, "secret", "", `fixed secret code, e.g. "0 1 3 5"`)
	return cmd
}

func runPlay(cmd *cobra.Command, f playFlags) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	// Logs would interleave with the prompts; keep only problems.
	log := app.NewLogger(cmd.ErrOrStderr(), cfg.Log.Format, max(cfg.LogLevel(), slog.LevelWarn))

	settings, err := cfg.GameDefaults()
	if err != nil {
		return err
	}
	if err := f.apply(&settings); err != nil {
		return err
	}

	remote := randomorg.New(randomorg.Config{
		BaseURL:       cfg.RandomOrg.URL,
		Timeout:       cfg.RandomOrg.Timeout,
		RatePerSecond: cfg.RandomOrg.RatePerSecond,
	}, randomorg.NewMemoryQuotaCache(cfg.Redis.QuotaTTL), log)

	g, err := game.NewBuilder().
		RemoteSupplier(remote.Supplier).
		SupplyTimeout(cfg.RandomOrg.Timeout).
		Apply(settings).
		Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	state, err := cli.NewSession(g, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
	if errors.Is(err, cli.ErrQuit) || errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Fprintln(cmd.OutOrStdout(), "\nBye.")
		return nil
	}
	if err != nil {
		return err
	}
	log.Debug("game finished", "state", state)
	return nil
}

// apply overrides the configured defaults with the flags that were given.
func (f playFlags) apply(s *game.Settings) error {
	if f.length != 0 {
		s.CodeLength = f.length
	}
	if f.colors != 0 {
		s.NumColors = f.colors
	}
	if f.attempts != 0 {
		s.MaxAttempts = f.attempts
	}
	if f.strategy != "" {
		st, err := game.ParseStrategy(f.strategy)
		if err != nil {
			return err
		}
		s.Strategy = st
	}
	if f.source != "" {
		src, err := game.ParseSecretSource(f.source)
		if err != nil {
			return err
		}
		s.Source = src
	}
	if f.secret != "" {
		raw, err := cli.ParseCode(f.secret)
		if err != nil {
			return fmt.Errorf("--secret: %w", err)
		}
		s.Secret = raw
		if f.length == 0 {
			// the secret fixes the length; --length must agree with it
			s.CodeLength = 0
		}
		if f.source == "" {
			// the configured default source would conflict with a literal secret
			s.Source = ""
		}
	}
	return nil
}
