package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/festy23/company_insights/internal/database/migrate"
)

func newMigrateCmd(c *cli) *cobra.Command {
	var (
		dir   string
		steps int
	)

	cmd := &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply, roll back or inspect schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			if dir == "" {
				dir = migrate.GetMigrationsPath()
			}

			db, release, err := c.openDB(cmd)
			if err != nil {
				return err
			}
			defer release()

			switch action {
			case "down":
				if err := migrate.Down(db, dir, steps); err != nil {
					return err
				}
				c.log.Infow("Migrations rolled back", "path", dir, "steps", steps)
			case "version":
				version, dirty, err := migrate.Version(db, dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			default:
				if err := migrate.Up(db, dir); err != nil {
					return err
				}
				c.log.Infow("Migrations applied", "path", dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "path", "", "migrations directory (default $MIGRATIONS_PATH or ./migrations)")
	cmd.Flags().IntVar(&steps, "steps", 1, "migrations to roll back with down; 0 rolls back all")
	return cmd
}
