// Package reconcile keeps a derived search index in agreement with an authoritative
// entity store.
//
// Instead of updating the index on every write, a periodic run compares the two
// stores and computes the minimal set of mutations required:
//
//   - to-add: live records with no index entry
//   - to-update: live records whose index entry carries a different timestamp
//   - to-delete: index entries with no live record (tombstones)
//
// # Architecture
//
// The reconcile system consists of four components:
//
// 1. Registry: a static mapping from every trackable entity type to its Converter
// and base type, built once at bootstrap. Converters sharing a base type are
// grouped so each base type is diffed exactly once per run.
//
// 2. Engine: loads the full authoritative snapshot and the full index snapshot of a
// base type, then diffs them by (entity id, base type). ReconcileAll runs one diff
// per base type on a bounded worker group and merges the results.
//
// 3. Coordinator: the unit a trigger invokes. It takes a time-boxed lock, asks the
// engine for the merged diff and hands it to the Updater: bulk add, per-record
// update, bulk delete.
//
// 4. Source, Index and Updater: the store surfaces, implemented by feature packages.
//
// # Change detection
//
// A record is stale when its last-modified timestamp differs from the timestamp
// stored on its entry. The comparison is exact inequality, not "newer than", so an
// entry whose stored timestamp is ahead of the source is rewritten as well.
//
// # Failure model
//
// A read failure aborts the run before any mutation. An apply failure ends the run
// and leaves the remaining mutations for the next run, which re-diffs from scratch;
// the Updater must therefore be idempotent. The run lock expires after its TTL so
// a crashed process cannot block reconciliation forever. A run that is still
// executing past the TTL may overlap with the next one: this is accepted, not
// detected.
//
// # Usage Example
//
//	registry, _ := reconcile.NewRegistry(articleConverter, pageConverter)
//	engine := reconcile.NewEngine(registry, source, index, 4)
//	coordinator := reconcile.NewCoordinator(engine, updater, lock.NewMemory(), logger,
//	    reconcile.CoordinatorConfig{LockTTL: time.Hour})
//
//	report, err := coordinator.Run(ctx)
package reconcile
