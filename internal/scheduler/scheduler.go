package scheduler

import (
	"context"
	"log/slog"
	"time"

	"rentloop/internal/pkg/config"
	"rentloop/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

const runTimeout = 5 * time.Minute

// Scheduler runs the reconciliation pass on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *commands.Reconciler
	cfg        config.ReconcilerConfig
}

func NewScheduler(cfg config.ReconcilerConfig, reconciler *commands.Reconciler) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron:       c,
		reconciler: reconciler,
		cfg:        cfg,
	}

	if _, err := c.AddFunc(cfg.Schedule, s.runReconcile); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	report, err := s.reconciler.Run(ctx)
	if err != nil {
		slog.Error("scheduled reconcile failed", "error", err.Error())
		return
	}
	if !report.Clean() {
		slog.Info("scheduled reconcile applied corrections",
			"corrections", len(report.Corrections),
			"failures", len(report.Failures))
	}
}

func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		slog.Info("reconcile scheduler disabled")
		return
	}
	s.cron.Start()
	slog.Info("reconcile scheduler started", "schedule", s.cfg.Schedule)
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("reconcile scheduler stopped")
}
