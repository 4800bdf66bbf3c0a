// Package scheduler triggers background jobs on a fixed cadence.
//
// A Scheduler runs a single job every interval and optionally once at start.
// Ticks that arrive while the job is still running are dropped, not queued.
// Job errors are logged and the next tick tries again; the scheduler never
// retries on its own.
package scheduler
