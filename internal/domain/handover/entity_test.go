//go:build unit

package handover_test

import (
	"testing"
	"time"

	"rentloop/internal/domain/handover"
	"rentloop/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandover(t *testing.T) {
	t.Run("pending with a fresh token", func(t *testing.T) {
		h, err := builder.NewHandoverBuilder().BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, h.ID())
		assert.Equal(t, handover.StatusPending, h.Status())
		assert.Len(t, h.Token(), 64)
		assert.Nil(t, h.ActualDate())
	})

	t.Run("tokens are unique per issuance", func(t *testing.T) {
		b := builder.NewHandoverBuilder()
		first, err := b.BuildDomain()
		require.NoError(t, err)
		second, err := b.BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, first.Token(), second.Token())
	})

	t.Run("invalid type", func(t *testing.T) {
		b := builder.NewHandoverBuilder()
		b.Type = "delivery"
		_, err := b.BuildDomain()
		assert.ErrorIs(t, err, handover.ErrInvalidType)
	})

	t.Run("empty address", func(t *testing.T) {
		b := builder.NewHandoverBuilder()
		b.Address = "  "
		_, err := b.BuildDomain()
		assert.ErrorIs(t, err, handover.ErrEmptyAddress)
	})
}

func TestRedeem(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("pickup resolves to picked_up", func(t *testing.T) {
		h, err := builder.NewHandoverBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, h.Redeem(now))
		assert.Equal(t, handover.StatusPickedUp, h.Status())
		require.NotNil(t, h.ActualDate())
		assert.True(t, h.IsRedeemed())
	})

	t.Run("return resolves to returned", func(t *testing.T) {
		b := builder.NewHandoverBuilder()
		b.Type = handover.TypeReturn
		h, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, h.Redeem(now))
		assert.Equal(t, handover.StatusReturned, h.Status())
	})

	t.Run("redeeming twice fails", func(t *testing.T) {
		h, err := builder.NewHandoverBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, h.Redeem(now))
		assert.ErrorIs(t, h.Redeem(now), handover.ErrAlreadyResolved)
	})

	t.Run("cancelled tokens cannot be redeemed", func(t *testing.T) {
		h, err := builder.NewHandoverBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, h.Cancel())
		assert.ErrorIs(t, h.Redeem(now), handover.ErrAlreadyResolved)
	})
}

func TestCancel(t *testing.T) {
	h, err := builder.NewHandoverBuilder().BuildDomain()
	require.NoError(t, err)

	require.NoError(t, h.Cancel())
	assert.Equal(t, handover.StatusCancelled, h.Status())
	assert.ErrorIs(t, h.Cancel(), handover.ErrAlreadyResolved)
}
