package commands

import (
	"context"
	"log/slog"

	"rentloop/internal/domain/object"
	"rentloop/internal/domain/reservation"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/usecase/shared"

	"github.com/google/uuid"
)

// Correction records one state the reconciler repaired.
type Correction struct {
	Entity string    `json:"entity"`
	ID     uuid.UUID `json:"id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Reason string    `json:"reason"`
}

// Report is the outcome of one reconciliation pass. Failures are
// recoverable per-step errors; the pass keeps going past them.
type Report struct {
	Corrections []Correction `json:"corrections"`
	Failures    []string     `json:"failures"`
}

func (r *Report) Clean() bool {
	return len(r.Corrections) == 0 && len(r.Failures) == 0
}

func (r *Report) correct(entity string, id uuid.UUID, from, to, reason string) {
	r.Corrections = append(r.Corrections, Correction{
		Entity: entity, ID: id, From: from, To: to, Reason: reason,
	})
}

// Reconciler converges stored state with what the calendar says it
// should be: confirmed reservations whose period began become ongoing,
// ongoing ones whose period ended become completed, and object statuses
// are re-derived wherever they drifted from the active count. Every step
// is a conditional write, so a pass over an already-consistent database
// changes nothing.
type Reconciler struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	notifier Notifier
}

func NewReconciler(uow shared.UnitOfWork, c clock.Clock, notifier Notifier) *Reconciler {
	return &Reconciler{uow: uow, clock: c, notifier: notifier}
}

func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := r.startDue(ctx, report); err != nil {
		report.Failures = append(report.Failures, err.Error())
		slog.Error("reconcile: start step failed", "error", err.Error())
	}
	if err := r.completeExpired(ctx, report); err != nil {
		report.Failures = append(report.Failures, err.Error())
		slog.Error("reconcile: complete step failed", "error", err.Error())
	}
	if err := r.repairDrift(ctx, report); err != nil {
		report.Failures = append(report.Failures, err.Error())
		slog.Error("reconcile: drift step failed", "error", err.Error())
	}

	slog.Info("reconcile pass finished",
		"corrections", len(report.Corrections),
		"failures", len(report.Failures))

	return report, nil
}

func (r *Reconciler) startDue(ctx context.Context, report *Report) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		started, err := tx.Reservations().StartDue(ctx, tx.DB(), clock.Today(r.clock))
		if err != nil {
			return err
		}

		for _, t := range started {
			report.correct("reservation", t.ReservationID,
				reservation.StatusConfirmed.String(), reservation.StatusOngoing.String(),
				"period start date reached")

			if err := r.notifier.Publish(ctx, tx.DB(), TopicReservationStarted, reservationEvent{
				ReservationID: t.ReservationID,
				ObjectID:      t.ObjectID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Reconciler) completeExpired(ctx context.Context, report *Report) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		completed, err := tx.Reservations().CompleteExpired(ctx, tx.DB(), clock.Today(r.clock))
		if err != nil {
			return err
		}

		seen := make(map[uuid.UUID]struct{}, len(completed))
		for _, t := range completed {
			report.correct("reservation", t.ReservationID,
				reservation.StatusOngoing.String(), reservation.StatusCompleted.String(),
				"period end date passed")

			if err := r.notifier.Publish(ctx, tx.DB(), TopicReservationCompleted, reservationEvent{
				ReservationID: t.ReservationID,
				ObjectID:      t.ObjectID,
			}); err != nil {
				return err
			}

			if _, dup := seen[t.ObjectID]; dup {
				continue
			}
			seen[t.ObjectID] = struct{}{}
			if err := recomputeObjectStatus(ctx, tx, t.ObjectID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Reconciler) repairDrift(ctx context.Context, report *Report) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		drift, err := tx.Objects().FindStatusDrift(ctx, tx.DB())
		if err != nil {
			return err
		}

		for _, d := range drift {
			want := object.DeriveStatus(d.ActiveCount)
			if want == d.StoredStatus {
				continue
			}

			changed, err := tx.Objects().SetDerivedStatus(ctx, tx.DB(), d.ObjectID, want)
			if err != nil {
				return err
			}
			if changed {
				report.correct("object", d.ObjectID,
					d.StoredStatus.String(), want.String(),
					"status drifted from active reservation count")
			}
		}
		return nil
	})
}
