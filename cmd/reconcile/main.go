package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"rentloop/internal/infra/db"
	"rentloop/internal/infra/notify"
	"rentloop/internal/infra/uow"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/pkg/config"
	"rentloop/internal/usecase/commands"
)

// Exit codes: 0 when the database was already consistent, 2 when
// corrections were applied, 1 on error. Monitoring treats 2 as a signal
// that state drifted between scheduled passes.
const (
	exitClean      = 0
	exitError      = 1
	exitCorrected  = 2
	reconcileLimit = 10 * time.Minute
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err.Error())
		os.Exit(exitError)
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err.Error())
		os.Exit(exitError)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), reconcileLimit)
	defer cancel()

	realClock := clock.NewRealClock()
	reconciler := commands.NewReconciler(
		uow.NewPostgresUoW(pool),
		realClock,
		notify.NewOutboxNotifier(realClock),
	)

	report, err := reconciler.Run(ctx)
	if err != nil {
		slog.Error("reconcile run failed", "error", err.Error())
		os.Exit(exitError)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		slog.Error("failed to encode report", "error", err.Error())
		os.Exit(exitError)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))

	if len(report.Failures) > 0 {
		os.Exit(exitError)
	}
	if len(report.Corrections) > 0 {
		os.Exit(exitCorrected)
	}
	os.Exit(exitClean)
}
