package reconcile

import "time"

// Config holds configuration for the indexer runs.
type Config struct {
	// Interval is the period between scheduled runs. Zero disables the scheduler.
	Interval time.Duration `mapstructure:"interval" default:"10m"`
	// RunOnStart triggers a run as soon as the service starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
	// LockTTL bounds how long a run lock is honored.
	LockTTL time.Duration `mapstructure:"lock_ttl" default:"1h"`
	// LockBackend selects the lock implementation (memory, database).
	LockBackend string `mapstructure:"lock_backend" default:"memory"`
	// Workers is the number of base types diffed concurrently.
	Workers int `mapstructure:"workers" default:"4"`
	// BatchSize is the number of rows per bulk insert.
	BatchSize int `mapstructure:"batch_size" default:"500"`
	// UpdateRate throttles per-record updates in records per second. Zero is unlimited.
	UpdateRate float64 `mapstructure:"update_rate" default:"0"`
	// ContinueOnUpdateError keeps updating remaining records after a failure.
	ContinueOnUpdateError bool `mapstructure:"continue_on_update_error" default:"false"`
	// ArchiveReports uploads every run report to object storage.
	ArchiveReports bool `mapstructure:"archive_reports" default:"true"`
	// ReportPrefix is the object key prefix of archived reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports/textsearch"`
	// ReportRetention is the number of archived reports kept. Zero keeps all.
	ReportRetention int `mapstructure:"report_retention" default:"100"`
	// AutoMigrate creates or updates the index tables on start.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
}

// CoordinatorConfig extracts the run coordinator settings.
func (c Config) CoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LockName:              DefaultLockName,
		LockTTL:               c.LockTTL,
		ContinueOnUpdateError: c.ContinueOnUpdateError,
		UpdateRate:            c.UpdateRate,
	}
}
