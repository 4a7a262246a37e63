//go:build unit

package reservation_test

import (
	"testing"

	"rentloop/internal/domain/reservation"
	"rentloop/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, res.ID())
		assert.Equal(t, reservation.StatusPending, res.Status())
		assert.Nil(t, res.PaymentRef())
	})

	t.Run("owner cannot rent own object", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		b.RenterID = b.OwnerID
		_, err := b.BuildDomain()
		assert.ErrorIs(t, err, reservation.ErrOwnObject)
	})

	t.Run("total price covers the whole period", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		// 3 days at 20 per day
		assert.Equal(t, "60", res.TotalPrice().String())
	})
}

func TestReservationLifecycle(t *testing.T) {
	newPending := func(t *testing.T) *reservation.Reservation {
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		return res
	}

	t.Run("accept then start then complete", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		res, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, res.Accept())
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.True(t, res.IsActive())

		require.NoError(t, res.Start(b.Start))
		assert.Equal(t, reservation.StatusOngoing, res.Status())

		require.NoError(t, res.Complete(b.End.AddDate(0, 0, 1)))
		assert.Equal(t, reservation.StatusCompleted, res.Status())
		assert.False(t, res.IsActive())
	})

	t.Run("start before the period begins", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		res, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, res.Accept())

		assert.ErrorIs(t, res.Start(b.Start.AddDate(0, 0, -1)), reservation.ErrNotStartedYet)
	})

	t.Run("complete on the end date is too early", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		res, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, res.Accept())
		require.NoError(t, res.Start(b.Start))

		assert.ErrorIs(t, res.Complete(b.End), reservation.ErrNotEndedYet)
	})

	t.Run("terminal states are immutable", func(t *testing.T) {
		res := newPending(t)
		require.NoError(t, res.Reject())

		assert.ErrorIs(t, res.Accept(), reservation.ErrIllegalTransition)
		assert.ErrorIs(t, res.Cancel(), reservation.ErrIllegalTransition)
	})

	t.Run("accept twice fails", func(t *testing.T) {
		res := newPending(t)
		require.NoError(t, res.Accept())
		assert.ErrorIs(t, res.Accept(), reservation.ErrIllegalTransition)
	})

	t.Run("cancel after ongoing fails", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		res, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, res.Accept())
		require.NoError(t, res.Start(b.Start))

		assert.ErrorIs(t, res.Cancel(), reservation.ErrIllegalTransition)
	})
}

func TestConfirmPayment(t *testing.T) {
	t.Run("records the payment reference", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, res.ConfirmPayment("pay_123"))
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		require.NotNil(t, res.PaymentRef())
		assert.Equal(t, "pay_123", *res.PaymentRef())
	})

	t.Run("mutually exclusive with accept", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, res.Accept())
		assert.ErrorIs(t, res.ConfirmPayment("pay_456"), reservation.ErrIllegalTransition)
	})
}

func TestIsParticipant(t *testing.T) {
	b := builder.NewReservationBuilder()
	res, err := b.BuildDomain()
	require.NoError(t, err)

	assert.True(t, res.IsParticipant(b.RenterID))
	assert.True(t, res.IsParticipant(b.OwnerID))
	assert.False(t, res.IsParticipant(uuid.New()))
}
