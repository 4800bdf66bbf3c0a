package reconcile

import (
	"sort"
	"time"
)

// BaseType identifies an entity family that is bulk-loaded and bulk-compared as one group.
// Its string value is the type name stored on index entries.
type BaseType string

// String returns the type name stored on index entries.
func (b BaseType) String() string {
	return string(b)
}

// Record is a live, concrete authoritative entity.
type Record interface {
	// EntityID returns the id of the entity, unique within its base type.
	EntityID() uint

	// EntityType returns the concrete entity type name (e.g., "Article").
	EntityType() string

	// LastModified returns the authoritative last-modified timestamp.
	LastModified() time.Time
}

// Handle is a loaded authoritative row that may still be a placeholder.
// Sources resolve handles to a concrete Record or to absence.
type Handle any

// IndexEntry is the comparison view of a stored index document.
type IndexEntry struct {
	// ID is the storage id of the entry.
	ID uint `json:"id"`

	// EntityID is the id of the authoritative entity this entry was built from.
	EntityID uint `json:"entity_id"`

	// EntityType is the base type name the entry was stored under.
	EntityType string `json:"entity_type"`

	// EntityUpdatedOn is the authoritative timestamp observed when the entry was last written.
	EntityUpdatedOn time.Time `json:"entity_updated_on"`
}

// Document is the searchable content a Converter extracts from a record.
type Document struct {
	DisplayName   string `json:"display_name"`
	PrimaryText   string `json:"primary_text"`
	SecondaryText string `json:"secondary_text"`
}

// Counts holds the sizes of the three diff sets.
type Counts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// Total returns the number of mutations the counts describe.
func (c Counts) Total() int {
	return c.Added + c.Updated + c.Deleted
}

// DiffResult holds the mutations required to bring the index back into agreement.
// No (id, type) identity appears in more than one of the three sets.
type DiffResult struct {
	// ToAdd contains live records with no index entry.
	ToAdd []Record

	// ToUpdate contains live records whose index entry carries a different timestamp.
	ToUpdate []Record

	// ToDelete contains index entries with no live authoritative record.
	ToDelete []IndexEntry

	// Breakdown holds per base type counts. Populated by Merge.
	Breakdown map[BaseType]Counts
}

// Counts returns the sizes of the three sets.
func (d *DiffResult) Counts() Counts {
	if d == nil {
		return Counts{}
	}
	return Counts{
		Added:   len(d.ToAdd),
		Updated: len(d.ToUpdate),
		Deleted: len(d.ToDelete),
	}
}

// Empty reports whether the diff requires no mutation.
func (d *DiffResult) Empty() bool {
	return d.Counts().Total() == 0
}

// Merge appends the sets of other, computed for base, into d.
func (d *DiffResult) Merge(base BaseType, other *DiffResult) {
	if other == nil {
		return
	}
	if d.Breakdown == nil {
		d.Breakdown = make(map[BaseType]Counts)
	}
	d.ToAdd = append(d.ToAdd, other.ToAdd...)
	d.ToUpdate = append(d.ToUpdate, other.ToUpdate...)
	d.ToDelete = append(d.ToDelete, other.ToDelete...)
	d.Breakdown[base] = other.Counts()
}

// State is the lifecycle state of the run coordinator.
type State string

const (
	// StateIdle means no run is in progress.
	StateIdle State = "idle"
	// StateAcquiringLock means a run is waiting on the mutual-exclusion guard.
	StateAcquiringLock State = "acquiring_lock"
	// StateDiffing means the snapshots are being loaded and compared.
	StateDiffing State = "diffing"
	// StateApplying means the updater is being called.
	StateApplying State = "applying"
	// StateFailed is entered briefly when a run ends with an error.
	StateFailed State = "failed"
)

// RunOptions controls a single coordinator run.
type RunOptions struct {
	// DryRun computes the diff without calling the updater.
	DryRun bool

	// LimitDeletes fails the run before any mutation when the diff deletes
	// more than MaxDeletes entries.
	LimitDeletes bool
	MaxDeletes   int
}

// RunSummary provides aggregate counts for a run.
type RunSummary struct {
	Counts

	// PerBaseType breaks the counts down by base type name.
	PerBaseType map[string]Counts `json:"per_base_type"`
}

// RunReport describes the outcome of one coordinator run.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// StartedAt is when the run was triggered.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run returned.
	FinishedAt time.Time `json:"finished_at"`

	// Skipped is true when another run held the lock.
	Skipped bool `json:"skipped"`

	// DryRun is true when no mutation was requested.
	DryRun bool `json:"dry_run"`

	// Summary holds the diff counts.
	Summary RunSummary `json:"summary"`

	// Error is the failure message, if any.
	Error string `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// summarize builds a RunSummary from a merged diff.
func summarize(d *DiffResult) RunSummary {
	summary := RunSummary{
		Counts:      d.Counts(),
		PerBaseType: make(map[string]Counts, len(d.Breakdown)),
	}
	for base, counts := range d.Breakdown {
		summary.PerBaseType[base.String()] = counts
	}
	return summary
}

// sortRecords orders records by id for deterministic output.
func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].EntityID() < records[j].EntityID()
	})
}

// sortEntries orders entries by entity id for deterministic output.
func sortEntries(entries []IndexEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EntityID < entries[j].EntityID
	})
}
