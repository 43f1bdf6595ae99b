package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"civicpulse/portal/internal/repository"
	"civicpulse/portal/internal/security"
	"civicpulse/portal/internal/service"
)

func officialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "official",
		Short: "Manage official accounts",
	}
	cmd.AddCommand(officialCreateCmd())
	return cmd
}

func officialCreateCmd() *cobra.Command {
	var input service.OfficialInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an official account for a district",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(e env) error {
				hasher := security.NewPasswordHasher(security.Argon2Params{
					Time:    e.cfg.Security.Argon2Time,
					Memory:  e.cfg.Security.Argon2Memory,
					Threads: e.cfg.Security.Argon2Threads,
				})
				user, err := service.ProvisionOfficial(cmd.Context(), repository.NewUserRepository(e.pool), hasher, input)
				if err != nil {
					var verr *service.ValidationError
					if errors.As(err, &verr) {
						for _, f := range verr.Fields {
							fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f.Field, f.Message)
						}
					}
					return err
				}

				e.log.Info().
					Int64("user_id", user.ID).
					Str("username", user.Username).
					Str("district", user.District).
					Msg("official provisioned")
				fmt.Fprintf(cmd.OutOrStdout(), "Created official %s (id %d) for %s\n", user.Username, user.ID, user.District)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&input.District, "district", "", "District the official serves")
	cmd.Flags().StringVar(&input.Password, "password", "", "Initial password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("district")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
