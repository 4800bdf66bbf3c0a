// Package lock provides time-boxed mutual exclusion for background jobs.
//
// A lock is identified by a name and held by an owner (typically a run id) until
// it is released or its TTL expires. An expired lock is considered stale and
// may be taken over by the next caller.
//
// # Backends
//
//   - Memory: process-wide, for single-replica deployments.
//   - Database: a row per lock in the run_locks table, shared by every replica
//     connected to the same database.
//
// # Stale locks
//
// Expiry is a liveness safeguard, not a fence. A holder that keeps running past
// its TTL is not notified and may overlap with the caller that took the lock
// over. Callers must keep their work idempotent.
//
// # Usage
//
//	locker := lock.NewMemory()
//	ok, err := locker.TryAcquire(ctx, "textsearch-refresh", runID, time.Hour)
//	if ok {
//	    defer locker.Release(ctx, "textsearch-refresh", runID)
//	}
package lock
