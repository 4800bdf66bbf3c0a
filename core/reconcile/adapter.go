package reconcile

import (
	"context"
)

// Converter defines the per entity type capability used to track an entity in the index.
// Each converter is registered once, under its concrete entity type name.
type Converter interface {
	// EntityType returns the concrete entity type this converter handles (e.g., "Article").
	EntityType() string

	// BaseType returns the bulk-loadable family the entity belongs to (e.g., "Webpage").
	BaseType() BaseType

	// Convert extracts the searchable document for a record of this entity type.
	Convert(record Record) (Document, error)
}

// Source is the authoritative store query surface consumed by the diff engine.
type Source interface {
	// LoadAll loads every handle of the base type, including ones that may resolve to absent.
	// Implementations should use a single batch query.
	LoadAll(ctx context.Context, base BaseType) ([]Handle, error)

	// Resolve returns the concrete record behind a handle.
	// Soft-deleted and dangling handles return ok=false.
	Resolve(handle Handle) (record Record, ok bool)
}

// Index is the index store query surface consumed by the diff engine.
type Index interface {
	// LoadEntries loads every entry whose stored type name equals typeName.
	LoadEntries(ctx context.Context, typeName string) ([]IndexEntry, error)
}

// Updater applies mutations to the physical index store.
// All methods must be idempotent with respect to (entity id, entity type):
// a retried run may resend a mutation that was already applied.
type Updater interface {
	// Add writes index documents for new records.
	Add(ctx context.Context, records []Record) error

	// Update rewrites the index document for a single record.
	Update(ctx context.Context, record Record) error

	// Delete removes the given entries.
	Delete(ctx context.Context, entries []IndexEntry) error
}

// ReportSink receives every finished run report.
// Sink failures are logged and never fail the run.
type ReportSink interface {
	Save(ctx context.Context, report *RunReport) error
}
