package tasks

import "time"

// Config sizes the queue worker pool and its housekeeping. Retry behavior is
// per-queue and lives with the task type (see OverdueSweepTask.Config).
type Config struct {
	// Workers is the number of concurrent queue workers.
	Workers int

	// ReleaseAfter is how long a claimed task may run before it is handed
	// back to the queue as stuck.
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished tasks are purged.
	CleanupInterval time.Duration
}

// DefaultConfig returns the pool configuration used when no environment
// overrides are set. Two workers are plenty; the only queued work is the
// overdue sweep.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
