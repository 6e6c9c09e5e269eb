// Package scheduler runs the periodic overdue sweep on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shelfwise/shelfwise/internal/circulation"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/database/settings"
	"github.com/shelfwise/shelfwise/internal/entities"
)

// SweepRunner performs one overdue sweep pass.
type SweepRunner interface {
	MarkOverdue(now time.Time) (*circulation.SweepResult, error)
}

// Enqueuer hands the sweep to the task queue instead of running it inline,
// so a failed run gets the queue's retry-with-backoff behavior.
type Enqueuer func(requestedAt time.Time) error

// OverdueSweepScheduler fires the overdue sweep on a cron schedule. Schedule
// and enabled flag come from env config, with database settings taking
// precedence so they can be changed from the admin UI without a restart.
type OverdueSweepScheduler struct {
	sweeper  SweepRunner
	settings *settings.Repository
	config   config.Sweep
	enqueue  Enqueuer

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	cancelFunc context.CancelFunc
}

// NewOverdueSweepScheduler creates a new scheduler instance. The enqueuer is
// optional; when nil the sweep runs in-process on the cron goroutine.
func NewOverdueSweepScheduler(sweeper SweepRunner, settingsRepo *settings.Repository, cfg config.Sweep, enqueue Enqueuer) *OverdueSweepScheduler {
	return &OverdueSweepScheduler{
		sweeper:  sweeper,
		settings: settingsRepo,
		config:   cfg,
		enqueue:  enqueue,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Enabled resolves the effective enabled flag (database overrides env).
func (s *OverdueSweepScheduler) Enabled() bool {
	value := s.settings.GetSettingOrDefault(entities.SettingKeySweepEnabled, "")
	if value == "" {
		return s.config.Enabled
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return s.config.Enabled
	}
	return enabled
}

// Schedule resolves the effective cron schedule (database overrides env).
func (s *OverdueSweepScheduler) Schedule() string {
	schedule := s.settings.GetSettingOrDefault(entities.SettingKeySweepSchedule, "")
	if schedule == "" {
		schedule = s.config.Schedule
	}
	if schedule == "" {
		schedule = config.DefaultSweepSchedule
	}
	return schedule
}

// Start begins the scheduler if the sweep is enabled.
func (s *OverdueSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.Enabled() {
		log.Printf("Overdue sweep scheduler: disabled")
		return nil
	}

	schedule := s.Schedule()
	if err := ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(schedule)
	log.Printf("Overdue sweep scheduler: started with schedule '%s' (%s). Next run: %v",
		schedule, GetCronDescription(schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep to finish.
func (s *OverdueSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Overdue sweep scheduler: stopped")
}

// Reschedule restarts the scheduler with fresh settings (call after a
// settings change).
func (s *OverdueSweepScheduler) Reschedule() error {
	s.mu.Lock()
	wasRunning := s.isRunning
	s.mu.Unlock()

	if wasRunning {
		s.Stop()
	}

	return s.Start(context.Background())
}

// RunNow triggers an immediate sweep.
func (s *OverdueSweepScheduler) RunNow() {
	go s.runSweep()
}

// IsRunning returns whether the scheduler is active.
func (s *OverdueSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSweeping returns whether a sweep is currently in progress.
func (s *OverdueSweepScheduler) IsSweeping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSweeping
}

// GetNextRunTime returns when the next sweep will fire.
func (s *OverdueSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSweep performs (or enqueues) one sweep pass.
func (s *OverdueSweepScheduler) runSweep() {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		log.Printf("Overdue sweep: skipped (already running)")
		return
	}
	s.isSweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSweeping = false
		s.mu.Unlock()
	}()

	if !s.Enabled() {
		log.Printf("Overdue sweep: skipped (disabled)")
		return
	}

	now := time.Now()

	// Prefer the task queue: a sweep that fails there is retried with backoff.
	if s.enqueue != nil {
		if err := s.enqueue(now); err != nil {
			log.Printf("Overdue sweep: failed to enqueue, running inline: %v", err)
		} else {
			return
		}
	}

	result, err := s.sweeper.MarkOverdue(now)
	if err != nil {
		log.Printf("Overdue sweep: failed: %v", err)
		_ = s.settings.SetSweepStatus("error", err.Error(), 0)
		return
	}

	message := fmt.Sprintf("%d scanned, %d marked overdue", result.Scanned, result.Marked)
	status := "ok"
	if len(result.Failed) > 0 {
		status = "partial"
		message = fmt.Sprintf("%s, %d failed", message, len(result.Failed))
	}
	log.Printf("Overdue sweep: %s", message)
	_ = s.settings.SetSweepStatus(status, message, result.Marked)
}

// ValidateCronSchedule validates a cron schedule string.
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule.
func GetCronDescription(schedule string) string {
	switch schedule {
	case "0 3 * * *":
		return "Daily at 03:00"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 * * * *":
		return "Every hour at :00"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the schedule fires next.
func GetNextRunTime(schedule string) (*time.Time, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}
