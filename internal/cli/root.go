package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/volleyball-arena/internal/config"
	"github.com/DoyleJ11/volleyball-arena/internal/store"
)

var envFile string

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Volleyball self-play arena",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (optional)")

	cmd.AddCommand(
		ServeCommand(),
		SimulateCommand(),
	)
	return cmd
}

func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// openStore picks Postgres when a DSN is configured, memory otherwise.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (store.EpisodeStore, error) {
	if cfg.DatabaseURL == "" {
		log.Info("no DATABASE_URL, keeping episodes in memory")
		return store.NewMemory(), nil
	}
	st, err := store.OpenPostgres(ctx, cfg.DatabaseURL, log.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
