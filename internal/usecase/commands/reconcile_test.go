//go:build unit

package commands_test

import (
	"context"
	"testing"

	"rentloop/internal/domain/object"
	"rentloop/internal/domain/reservation"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/usecase/commands"
	"rentloop/tests/common/fake"
	commandsmock "rentloop/tests/mock/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newReconciler(store *fake.Store, notifier commands.Notifier) *commands.Reconciler {
	return commands.NewReconciler(fake.NewUoW(store), clock.NewMockClock(testNow), notifier)
}

func TestReconcilerStartsDueReservations(t *testing.T) {
	store := fake.NewStore()
	obj := seedObject(store, object.StatusRented)
	res := seedReservation(store, obj, reservation.StatusConfirmed)
	// Period began two days ago; the pickup was never redeemed.
	store.Reservations[res.ID].Start = date(2026, 2, 27)

	notifier := commandsmock.NewMockNotifier(gomock.NewController(t))
	notifier.EXPECT().
		Publish(gomock.Any(), gomock.Any(), commands.TopicReservationStarted, gomock.Any()).
		Return(nil)

	report, err := newReconciler(store, notifier).Run(context.Background())
	require.NoError(t, err)

	want := []commands.Correction{{
		Entity: "reservation",
		ID:     res.ID,
		From:   "confirmed",
		To:     "ongoing",
		Reason: "period start date reached",
	}}
	if diff := cmp.Diff(want, report.Corrections); diff != "" {
		t.Errorf("corrections mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, report.Failures)
	assert.Equal(t, reservation.StatusOngoing, store.ReservationStatus(res.ID))
}

func TestReconcilerCompletesExpiredReservations(t *testing.T) {
	store := fake.NewStore()
	obj := seedObject(store, object.StatusRented)
	res := seedReservation(store, obj, reservation.StatusOngoing)
	// Period ended two days ago; the return was never redeemed.
	store.Reservations[res.ID].Start = date(2026, 2, 20)
	store.Reservations[res.ID].End = date(2026, 2, 27)

	notifier := commandsmock.NewMockNotifier(gomock.NewController(t))
	notifier.EXPECT().
		Publish(gomock.Any(), gomock.Any(), commands.TopicReservationCompleted, gomock.Any()).
		Return(nil)

	report, err := newReconciler(store, notifier).Run(context.Background())
	require.NoError(t, err)

	want := []commands.Correction{{
		Entity: "reservation",
		ID:     res.ID,
		From:   "ongoing",
		To:     "completed",
		Reason: "period end date passed",
	}}
	if diff := cmp.Diff(want, report.Corrections); diff != "" {
		t.Errorf("corrections mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, reservation.StatusCompleted, store.ReservationStatus(res.ID))
	assert.Equal(t, object.StatusAvailable, store.ObjectStatus(obj.ID))
}

func TestReconcilerCompletesOnDayAfterEnd(t *testing.T) {
	store := fake.NewStore()
	obj := seedObject(store, object.StatusRented)
	res := seedReservation(store, obj, reservation.StatusOngoing)
	// End date is today: the rental still has the whole day to come back.
	store.Reservations[res.ID].Start = date(2026, 2, 25)
	store.Reservations[res.ID].End = date(2026, 3, 1)

	report, err := newReconciler(store, permissiveNotifier(t)).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Clean())
	assert.Equal(t, reservation.StatusOngoing, store.ReservationStatus(res.ID))
}

func TestReconcilerRepairsStatusDrift(t *testing.T) {
	t.Run("rented with no active reservations", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		seedReservation(store, obj, reservation.StatusCancelled)

		report, err := newReconciler(store, permissiveNotifier(t)).Run(context.Background())
		require.NoError(t, err)

		want := []commands.Correction{{
			Entity: "object",
			ID:     obj.ID,
			From:   "rented",
			To:     "available",
			Reason: "status drifted from active reservation count",
		}}
		if diff := cmp.Diff(want, report.Corrections); diff != "" {
			t.Errorf("corrections mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, object.StatusAvailable, store.ObjectStatus(obj.ID))
	})

	t.Run("available with an active reservation", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusConfirmed)
		// Keep the period in the future so the start step leaves it alone.
		store.Reservations[res.ID].Start = date(2026, 3, 10)
		store.Reservations[res.ID].End = date(2026, 3, 14)

		report, err := newReconciler(store, permissiveNotifier(t)).Run(context.Background())
		require.NoError(t, err)

		require.Len(t, report.Corrections, 1)
		assert.Equal(t, object.StatusRented, store.ObjectStatus(obj.ID))
	})

	t.Run("manual override is left alone", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusUnavailable)
		res := seedReservation(store, obj, reservation.StatusConfirmed)
		store.Reservations[res.ID].Start = date(2026, 3, 10)
		store.Reservations[res.ID].End = date(2026, 3, 14)

		report, err := newReconciler(store, permissiveNotifier(t)).Run(context.Background())
		require.NoError(t, err)

		assert.True(t, report.Clean())
		assert.Equal(t, object.StatusUnavailable, store.ObjectStatus(obj.ID))
	})
}

func TestReconcilerIsIdempotent(t *testing.T) {
	store := fake.NewStore()
	obj := seedObject(store, object.StatusRented)
	res := seedReservation(store, obj, reservation.StatusConfirmed)
	store.Reservations[res.ID].Start = date(2026, 2, 27)

	rec := newReconciler(store, permissiveNotifier(t))

	first, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Clean())

	second, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Clean())
}

func TestReconcilerCleanOnConsistentState(t *testing.T) {
	store := fake.NewStore()
	obj := seedObject(store, object.StatusRented)
	res := seedReservation(store, obj, reservation.StatusConfirmed)
	store.Reservations[res.ID].Start = date(2026, 3, 10)
	store.Reservations[res.ID].End = date(2026, 3, 14)

	report, err := newReconciler(store, permissiveNotifier(t)).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Clean())
}
