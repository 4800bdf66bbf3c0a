package lock

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RunLock is a persisted lock row.
type RunLock struct {
	Name      string    `gorm:"primaryKey;size:191"`
	Owner     string    `gorm:"size:64;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName overrides the table name used by RunLock.
func (RunLock) TableName() string {
	return "run_locks"
}

// Database is a Locker backed by the run_locks table.
// Each statement is atomic on its own, so no transaction is needed.
type Database struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewDatabase creates a locker over db. Call Migrate once before use.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db, clock: time.Now}
}

// Migrate creates the run_locks table if needed.
func (d *Database) Migrate() error {
	if err := d.db.AutoMigrate(&RunLock{}); err != nil {
		return fmt.Errorf("failed to migrate run_locks: %w", err)
	}
	return nil
}

// TryAcquire implements Locker.
func (d *Database) TryAcquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	now := d.clock().UTC()
	expiresAt := now.Add(ttl)

	// Fast path: no row yet
	created := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&RunLock{Name: name, Owner: owner, ExpiresAt: expiresAt})
	if created.Error != nil {
		return false, fmt.Errorf("failed to insert lock %s: %w", name, created.Error)
	}
	if created.RowsAffected == 1 {
		return true, nil
	}

	// Stale takeover: only an expired row may change owner
	taken := d.db.WithContext(ctx).
		Model(&RunLock{}).
		Where("name = ? AND expires_at <= ?", name, now).
		Updates(map[string]any{"owner": owner, "expires_at": expiresAt})
	if taken.Error != nil {
		return false, fmt.Errorf("failed to take over lock %s: %w", name, taken.Error)
	}

	return taken.RowsAffected == 1, nil
}

// Release implements Locker.
func (d *Database) Release(ctx context.Context, name, owner string) error {
	result := d.db.WithContext(ctx).
		Where("name = ? AND owner = ?", name, owner).
		Delete(&RunLock{})
	if result.Error != nil {
		return fmt.Errorf("failed to release lock %s: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotHeld
	}
	return nil
}

// New returns the locker for the configured backend.
func New(backend string, db *gorm.DB) (Locker, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendDatabase:
		if db == nil {
			return nil, fmt.Errorf("lock backend %q requires a database connection", backend)
		}
		d := NewDatabase(db)
		if err := d.Migrate(); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown lock backend: %s", backend)
	}
}
