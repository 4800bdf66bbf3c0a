package cmd

import (
	"context"
	"fmt"

	"search-indexer/core/config"
	"search-indexer/core/database"
	"search-indexer/core/logger"
	"search-indexer/core/storage"
	"search-indexer/feature/textsearch"

	"go.uber.org/zap"
)

// deps holds the dependencies shared by every command.
type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	feature *textsearch.Feature
}

// bootstrap loads configuration and wires the text search feature.
// The report archive is optional: a storage failure only disables it.
func bootstrap(ctx context.Context) (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to CMS database", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.Driver == database.DriverSQLite && cfg.Indexer.AutoMigrate {
		if err := textsearch.MigrateContent(db); err != nil {
			return nil, err
		}
	}

	var client storage.Client
	if cfg.Indexer.ArchiveReports {
		client, err = storage.NewClient(cfg.Storage)
		if err == nil {
			err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
		}
		if err != nil {
			l.Warn("Report archive disabled, storage unavailable", zap.Error(err))
			client = nil
		}
	}

	feature, err := textsearch.NewFeature(db, client, l, textsearch.Options{
		Indexer: cfg.Indexer,
		Bucket:  cfg.Storage.Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text search: %w", err)
	}

	return &deps{cfg: cfg, logger: l, feature: feature}, nil
}
