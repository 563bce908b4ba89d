package main

import (
	"os"

	"example.com/mastermind/internal/app"
	"example.com/mastermind/internal/config"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			log := app.NewLogger(os.Stdout, cfg.Log.Format, cfg.LogLevel())
			log.Info("starting", "env", cfg.Env)

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}
