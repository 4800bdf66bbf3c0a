package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of base types diffed concurrently when none is configured.
const DefaultWorkers = 4

// Engine computes diffs between the authoritative store and the index.
// It only reads; mutations are left to the Coordinator.
type Engine struct {
	registry *Registry
	source   Source
	index    Index
	workers  int
}

// NewEngine creates a diff engine over the given stores.
// workers bounds how many base types are diffed concurrently.
func NewEngine(registry *Registry, source Source, index Index, workers int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{
		registry: registry,
		source:   source,
		index:    index,
		workers:  workers,
	}
}

// Registry returns the registry the engine diffs against.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Diff computes the add, update and delete sets for one base type.
// Both snapshots are read in full before any decision is made.
func (e *Engine) Diff(ctx context.Context, base BaseType) (*DiffResult, error) {
	if !e.registry.Tracks(base) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBaseType, base)
	}

	ctx, span := tracer.Start(ctx, "reconcile.diff",
		trace.WithAttributes(attribute.String("reconcile.base_type", base.String())))
	defer span.End()
	start := time.Now()

	var (
		handles  []Handle
		entries  []IndexEntry
		loadErr  error
		indexErr error
		wg       sync.WaitGroup
	)

	// Load both snapshots concurrently
	wg.Add(2)

	go func() {
		defer wg.Done()
		handles, loadErr = e.source.LoadAll(ctx, base)
	}()

	go func() {
		defer wg.Done()
		entries, indexErr = e.index.LoadEntries(ctx, base.String())
	}()

	wg.Wait()

	if loadErr != nil {
		span.SetStatus(codes.Error, loadErr.Error())
		return nil, fmt.Errorf("failed to load %s records: %w", base, loadErr)
	}
	if indexErr != nil {
		span.SetStatus(codes.Error, indexErr.Error())
		return nil, fmt.Errorf("failed to load %s index entries: %w", base, indexErr)
	}

	live := resolveLive(e.source, handles)
	result := computeDiff(live, entries)

	counts := result.Counts()
	diffDuration.WithLabelValues(base.String()).Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("reconcile.live", len(live)),
		attribute.Int("reconcile.indexed", len(entries)),
		attribute.Int("reconcile.to_add", counts.Added),
		attribute.Int("reconcile.to_update", counts.Updated),
		attribute.Int("reconcile.to_delete", counts.Deleted),
	)

	return result, nil
}

// ReconcileAll diffs every tracked base type and merges the results.
// Base types are independent, so they run on a bounded worker group.
// The first read failure cancels the remaining diffs.
func (e *Engine) ReconcileAll(ctx context.Context) (*DiffResult, error) {
	bases := e.registry.BaseTypes()
	results := make([]*DiffResult, len(bases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, base := range bases {
		g.Go(func() error {
			result, err := e.Diff(gctx, base)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &DiffResult{Breakdown: make(map[BaseType]Counts, len(bases))}
	for i, base := range bases {
		merged.Merge(base, results[i])
	}

	return merged, nil
}

// resolveLive resolves handles and keeps the live records, first id wins.
func resolveLive(source Source, handles []Handle) []Record {
	live := make([]Record, 0, len(handles))
	seen := make(map[uint]struct{}, len(handles))

	for _, h := range handles {
		record, ok := source.Resolve(h)
		if !ok || record == nil {
			continue
		}
		id := record.EntityID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		live = append(live, record)
	}

	return live
}

// computeDiff compares the live set against the index set of one base type.
func computeDiff(live []Record, entries []IndexEntry) *DiffResult {
	indexed := make(map[uint]IndexEntry, len(entries))
	for _, entry := range entries {
		if _, dup := indexed[entry.EntityID]; dup {
			continue
		}
		indexed[entry.EntityID] = entry
	}

	liveIDs := make(map[uint]struct{}, len(live))
	result := &DiffResult{}

	for _, record := range live {
		id := record.EntityID()
		liveIDs[id] = struct{}{}

		entry, exists := indexed[id]
		if !exists {
			result.ToAdd = append(result.ToAdd, record)
			continue
		}

		// Exact inequality: a stored timestamp ahead of the source is repaired too.
		if !record.LastModified().Equal(entry.EntityUpdatedOn) {
			result.ToUpdate = append(result.ToUpdate, record)
		}
	}

	for _, entry := range indexed {
		if _, exists := liveIDs[entry.EntityID]; !exists {
			result.ToDelete = append(result.ToDelete, entry)
		}
	}

	sortRecords(result.ToAdd)
	sortRecords(result.ToUpdate)
	sortEntries(result.ToDelete)

	return result
}
