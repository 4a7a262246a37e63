package components

import (
	"context"

	"rentloop/internal/pkg/config"
	"rentloop/internal/scheduler"
	"rentloop/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewScheduler,
	),
	fx.Invoke(runScheduler),
)

func NewScheduler(cfg config.Config, reconciler *commands.Reconciler) (*scheduler.Scheduler, error) {
	return scheduler.NewScheduler(cfg.Reconciler, reconciler)
}

func runScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
