package textsearch

import (
	"context"
	"errors"

	"search-indexer/core/reconcile"
	"search-indexer/feature/textsearch/models"

	"go.uber.org/zap"
)

// ErrArchiveDisabled is returned by report lookups when archiving is off.
var ErrArchiveDisabled = errors.New("report archive is disabled")

// maxPreviewItems caps the identities listed per set in a preview.
const maxPreviewItems = 100

// PreviewItem identifies one pending mutation by entity id and base type.
type PreviewItem struct {
	EntityID   uint   `json:"entity_id"`
	EntityType string `json:"entity_type"`
}

// Preview describes the mutations the next run would apply.
type Preview struct {
	Summary  reconcile.RunSummary `json:"summary"`
	ToAdd    []PreviewItem        `json:"to_add"`
	ToUpdate []PreviewItem        `json:"to_update"`
	ToDelete []PreviewItem        `json:"to_delete"`
}

// Status describes the coordinator.
type Status struct {
	State      reconcile.State      `json:"state"`
	LastReport *reconcile.RunReport `json:"last_report,omitempty"`
}

// Service exposes the index operations used by the HTTP handler and the CLI.
type Service struct {
	coordinator *reconcile.Coordinator
	store       *Store
	archive     *ReportArchive
	logger      *zap.Logger
}

// NewService creates a new text search service. archive may be nil.
func NewService(coordinator *reconcile.Coordinator, store *Store, archive *ReportArchive, logger *zap.Logger) *Service {
	return &Service{
		coordinator: coordinator,
		store:       store,
		archive:     archive,
		logger:      logger,
	}
}

// Refresh runs a reconciliation. A skipped run is not an error.
func (s *Service) Refresh(ctx context.Context, dryRun bool) (*reconcile.RunReport, error) {
	return s.RefreshWithOptions(ctx, reconcile.RunOptions{DryRun: dryRun})
}

// RefreshWithOptions runs a reconciliation with explicit run options.
func (s *Service) RefreshWithOptions(ctx context.Context, opts reconcile.RunOptions) (*reconcile.RunReport, error) {
	return s.coordinator.RunWithOptions(ctx, opts)
}

// Preview computes the pending diff without applying it.
func (s *Service) Preview(ctx context.Context) (*Preview, error) {
	diff, err := s.coordinator.Preview(ctx)
	if err != nil {
		return nil, err
	}

	counts := diff.Counts()
	preview := &Preview{
		Summary: reconcile.RunSummary{
			Counts:      counts,
			PerBaseType: make(map[string]reconcile.Counts, len(diff.Breakdown)),
		},
		ToAdd:    s.recordItems(diff.ToAdd),
		ToUpdate: s.recordItems(diff.ToUpdate),
		ToDelete: entryItems(diff.ToDelete),
	}
	for base, c := range diff.Breakdown {
		preview.Summary.PerBaseType[base.String()] = c
	}
	return preview, nil
}

// Status returns the coordinator state and the last report.
func (s *Service) Status() Status {
	return Status{
		State:      s.coordinator.State(),
		LastReport: s.coordinator.LastReport(),
	}
}

// Runs lists archived reports, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]ReportObject, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.List(ctx, limit)
}

// Run returns an archived report.
func (s *Service) Run(ctx context.Context, runID string) (*reconcile.RunReport, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.Get(ctx, runID)
}

// Entry returns the stored index row of an entity.
func (s *Service) Entry(ctx context.Context, base reconcile.BaseType, entityID uint) (*models.TextSearchItem, error) {
	return s.store.Entry(ctx, entityID, base)
}

// recordItems lists records under their base type, the key index entries use.
func (s *Service) recordItems(records []reconcile.Record) []PreviewItem {
	n := min(len(records), maxPreviewItems)
	items := make([]PreviewItem, n)
	for i := 0; i < n; i++ {
		typ := records[i].EntityType()
		if conv, ok := s.store.registry.ConverterFor(typ); ok {
			typ = conv.BaseType().String()
		}
		items[i] = PreviewItem{EntityID: records[i].EntityID(), EntityType: typ}
	}
	return items
}

func entryItems(entries []reconcile.IndexEntry) []PreviewItem {
	n := min(len(entries), maxPreviewItems)
	items := make([]PreviewItem, n)
	for i := 0; i < n; i++ {
		items[i] = PreviewItem{EntityID: entries[i].EntityID, EntityType: entries[i].EntityType}
	}
	return items
}
