package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/config"
)

// CleanupEnqueuer puts an audit retention run on the task queue.
type CleanupEnqueuer interface {
	EnqueueAuditCleanup(retentionDays int) (string, error)
}

// AuditCleanupScheduler enqueues audit retention runs on a cron schedule.
// The deletion itself happens in the task queue worker.
type AuditCleanupScheduler struct {
	enqueuer CleanupEnqueuer
	cfg      config.Audit
	log      *zap.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

func NewAuditCleanupScheduler(enqueuer CleanupEnqueuer, cfg config.Audit, log *zap.Logger) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		enqueuer: enqueuer,
		cfg:      cfg,
		log:      log.Named("scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the cleanup job and starts the cron loop. An empty
// schedule disables the scheduler; cancelling ctx stops it.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.CleanupSchedule == "" {
		s.log.Info("audit cleanup scheduler disabled")
		return nil
	}

	if err := ValidateSchedule(s.cfg.CleanupSchedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.CleanupSchedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.CleanupSchedule, s.RunNow)
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.cfg.CleanupSchedule, time.Now())
	s.log.Info("audit cleanup scheduler started",
		zap.String("schedule", s.cfg.CleanupSchedule),
		zap.String("description", Describe(s.cfg.CleanupSchedule)),
		zap.Time("next_run", next))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the cron loop.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.log.Info("audit cleanup scheduler stopped")
}

// RunNow enqueues one cleanup immediately.
func (s *AuditCleanupScheduler) RunNow() {
	id, err := s.enqueuer.EnqueueAuditCleanup(s.cfg.RetentionDays)
	if err != nil {
		s.log.Error("failed to enqueue audit cleanup", zap.Error(err))
		return
	}
	s.log.Info("audit cleanup enqueued",
		zap.String("task_id", id),
		zap.Int("retention_days", s.cfg.RetentionDays))
}

func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next cleanup will be enqueued, or nil when stopped.
func (s *AuditCleanupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}
