package textsearch

import (
	"fmt"

	"search-indexer/core/lock"
	"search-indexer/core/reconcile"
	"search-indexer/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options configures the text search feature.
type Options struct {
	// Indexer holds the run settings.
	Indexer reconcile.Config
	// Bucket is the report archive bucket.
	Bucket string
}

// Feature implements the loader.Feature interface.
type Feature struct {
	registry    *reconcile.Registry
	coordinator *reconcile.Coordinator
	service     *Service
	handler     *Handler
}

// NewFeature wires the registry, stores, engine and coordinator over db.
// client may be nil, which disables the report archive.
func NewFeature(db *gorm.DB, client storage.Client, logger *zap.Logger, opts Options) (*Feature, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}

	if opts.Indexer.AutoMigrate {
		if err := MigrateIndex(db); err != nil {
			return nil, err
		}
	}
	if err := VerifySchema(db); err != nil {
		return nil, err
	}

	locker, err := lock.New(opts.Indexer.LockBackend, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create run lock: %w", err)
	}

	store := NewStore(db, registry)
	engine := reconcile.NewEngine(registry, store, store, opts.Indexer.Workers)
	coordinator := reconcile.NewCoordinator(engine, NewUpdater(db, registry, opts.Indexer.BatchSize), locker, logger, opts.Indexer.CoordinatorConfig())

	var archive *ReportArchive
	if client != nil && opts.Indexer.ArchiveReports {
		archive = NewReportArchive(client, opts.Bucket, opts.Indexer.ReportPrefix, opts.Indexer.ReportRetention, logger)
		coordinator.AddSink(archive)
	}

	svc := NewService(coordinator, store, archive, logger)
	return &Feature{
		registry:    registry,
		coordinator: coordinator,
		service:     svc,
		handler:     NewHandler(svc, registry),
	}, nil
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "textsearch"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Coordinator returns the run coordinator for schedulers and the CLI.
func (f *Feature) Coordinator() *reconcile.Coordinator {
	return f.coordinator
}

// Service returns the feature service.
func (f *Feature) Service() *Service {
	return f.service
}
