package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/festy23/company_insights/internal/auth"
	"github.com/festy23/company_insights/internal/config"
)

func newTokenCmd(_ *cli) *cobra.Command {
	var (
		userID  int64
		email   string
		isAdmin bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user-id must be positive")
			}
			cfg := config.LoadAuthConfigFromEnv()
			if err := cfg.Validate(); err != nil {
				return err
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).
				GenerateToken(auth.Identity{UserID: userID, Email: email, IsAdmin: isAdmin})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user-id", 0, "subject user id")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "grant the admin role")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
