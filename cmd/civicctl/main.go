// Command civicctl is the operator console for the CivicPulse database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"civicpulse/portal/internal/config"
	"civicpulse/portal/internal/database"
	"civicpulse/portal/internal/log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// errReported marks a failure the command already printed.
var errReported = errors.New("reported")

// env carries what every subcommand needs once config is loaded.
type env struct {
	cfg  *config.AppConfig
	log  zerolog.Logger
	pool *pgxpool.Pool
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "civicctl",
		Short:         "Operator console for CivicPulse",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(queryCmd(), migrateCmd(), officialCmd())
	return cmd
}

// withDatabase loads config, opens the pool and closes it after fn returns.
func withDatabase(ctx context.Context, fn func(env) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := log.New(cfg.Environment)

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	return fn(env{cfg: cfg, log: logger, pool: pool})
}
