package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"civicpulse/portal/internal/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(e env) error {
				applied, err := database.Migrate(cmd.Context(), e.pool)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
					return nil
				}
				for _, name := range applied {
					e.log.Info().Str("migration", name).Msg("migration applied")
					fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
				}
				return nil
			})
		},
	}
}
