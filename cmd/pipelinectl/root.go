package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/company_insights/internal/config"
	dbconfig "github.com/festy23/company_insights/internal/database/config"
	"github.com/festy23/company_insights/internal/database/database"
	"github.com/festy23/company_insights/pkg/logger"
)

// cli carries state shared by subcommands.
type cli struct {
	envFile string
	log     *zap.SugaredLogger

	// openDB is replaced in tests. The returned func releases the connection.
	openDB func(cmd *cobra.Command) (*gorm.DB, func(), error)
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	c.openDB = c.connect
	return c.rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pipelinectl",
		Short:         "Operate the company insights pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", c.envFile, err)
			}
			if c.log != nil {
				return nil
			}
			logCfg := config.LoadLoggerConfigFromEnv()
			logCfg.Service = "pipelinectl"
			log, err := logger.NewWithConfig(logCfg)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			c.log = log
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file to load before reading configuration")

	root.AddCommand(
		newMigrateCmd(c),
		newSweepCmd(c),
		newTokenCmd(c),
	)
	return root
}

func (c *cli) connect(cmd *cobra.Command) (*gorm.DB, func(), error) {
	db, err := database.Open(cmd.Context(), dbconfig.LoadConfigFromEnv(), c.log)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := database.Close(db); err != nil {
			c.log.Warnw("Database close failed", "error", err)
		}
	}, nil
}
