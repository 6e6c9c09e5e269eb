package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/shelfwise/shelfwise/internal/circulation"
)

// Sweeper runs the overdue sweep over open loans.
type Sweeper interface {
	MarkOverdue(now time.Time) (*circulation.SweepResult, error)
}

// SweepRecorder persists the outcome of a sweep run for the settings screen.
type SweepRecorder interface {
	SetSweepStatus(status, message string, marked int) error
}

// OverdueSweepTask flags open loans whose due date has passed. The scheduler
// enqueues one per tick; a failed run is retried with backoff by the queue.
type OverdueSweepTask struct {
	// RequestedAt is when the sweep was scheduled, for log correlation.
	RequestedAt time.Time `json:"requested_at"`
}

// Config returns the queue configuration for overdue sweep tasks.
func (t OverdueSweepTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "overdue_sweep",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OverdueSweepProcessor creates a processor function for OverdueSweepTask.
// The recorder is optional; when present, each run's outcome lands in settings.
func OverdueSweepProcessor(sweeper Sweeper, recorder SweepRecorder) backlite.QueueProcessor[OverdueSweepTask] {
	return func(ctx context.Context, task OverdueSweepTask) error {
		if sweeper == nil {
			return fmt.Errorf("sweeper not configured")
		}

		result, err := sweeper.MarkOverdue(time.Now())
		if err != nil {
			if recorder != nil {
				_ = recorder.SetSweepStatus("error", err.Error(), 0)
			}
			return fmt.Errorf("overdue sweep: %w", err)
		}

		message := fmt.Sprintf("%d scanned, %d marked overdue", result.Scanned, result.Marked)
		status := "ok"
		if len(result.Failed) > 0 {
			status = "partial"
			message = fmt.Sprintf("%s, %d failed", message, len(result.Failed))
		}
		if recorder != nil {
			_ = recorder.SetSweepStatus(status, message, result.Marked)
		}

		log.Printf("[TASK] Overdue sweep: %s", message)
		return nil
	}
}

// NewOverdueSweepQueue creates a backlite queue for overdue sweep tasks.
func NewOverdueSweepQueue(sweeper Sweeper, recorder SweepRecorder) backlite.Queue {
	return backlite.NewQueue(OverdueSweepProcessor(sweeper, recorder))
}
