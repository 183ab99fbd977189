package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Reconciler repairs denormalized counters
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler  *gocron.Scheduler
	reconciler Reconciler
	interval   time.Duration
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler instance. A non-positive interval disables
// the reconcile job.
func New(reconciler Reconciler, interval time.Duration, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		reconciler: reconciler,
		interval:   interval,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start registers the jobs and runs them in the background
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("Word count reconciliation disabled")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.reconcile); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info("Scheduler started", slog.Duration("reconcile_interval", s.interval))
	return nil
}

// Stop terminates all scheduled tasks and cancels a running job
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) reconcile() {
	start := time.Now()
	repaired, err := s.reconciler.Reconcile(s.ctx)
	if err != nil {
		s.logger.Error("Word count reconciliation failed", slog.Any("error", err))
		return
	}
	s.logger.Info("Word count reconciliation finished",
		slog.Int("repaired", repaired),
		slog.Duration("took", time.Since(start)))
}
