package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotHeld is returned when releasing a lock the owner does not hold.
var ErrNotHeld = errors.New("lock not held by owner")

// Backend names accepted by New.
const (
	BackendMemory   = "memory"
	BackendDatabase = "database"
)

// Locker defines time-boxed, named mutual exclusion.
type Locker interface {
	// TryAcquire takes the lock for owner if it is free or stale.
	// It never waits: ok is false when another owner holds a live lock.
	TryAcquire(ctx context.Context, name, owner string, ttl time.Duration) (ok bool, err error)

	// Release frees the lock if owner still holds it.
	Release(ctx context.Context, name, owner string) error
}

type holder struct {
	owner     string
	expiresAt time.Time
}

// Memory is a process-wide Locker.
type Memory struct {
	mu    sync.Mutex
	held  map[string]holder
	clock func() time.Time
}

// NewMemory creates an in-process locker.
func NewMemory() *Memory {
	return &Memory{
		held:  make(map[string]holder),
		clock: time.Now,
	}
}

// TryAcquire implements Locker.
func (m *Memory) TryAcquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if h, ok := m.held[name]; ok && now.Before(h.expiresAt) {
		return false, nil
	}

	m.held[name] = holder{owner: owner, expiresAt: now.Add(ttl)}
	return true, nil
}

// Release implements Locker.
func (m *Memory) Release(ctx context.Context, name, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.held[name]
	if !ok || h.owner != owner {
		return ErrNotHeld
	}
	delete(m.held, name)
	return nil
}
