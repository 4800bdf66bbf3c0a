package cmd

import (
	"fmt"

	"search-indexer/core/config"
	"search-indexer/core/database"
	"search-indexer/core/lock"
	"search-indexer/core/logger"
	"search-indexer/feature/textsearch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates the tables owned by the indexer.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the index and lock tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := textsearch.MigrateIndex(db); err != nil {
			return err
		}
		if err := lock.NewDatabase(db).Migrate(); err != nil {
			return err
		}
		if err := textsearch.VerifySchema(db); err != nil {
			return err
		}

		l.Info("Migration completed", zap.String("database", cfg.Database.Name))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
