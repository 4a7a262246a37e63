//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"rentloop/internal/domain/reservation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustPeriod(t *testing.T, start, end time.Time) reservation.Period {
	t.Helper()
	p, err := reservation.NewPeriod(start, end, date(2026, 1, 1))
	require.NoError(t, err)
	return p
}

func TestNewPeriod(t *testing.T) {
	now := date(2026, 3, 1)

	t.Run("end must be after start", func(t *testing.T) {
		_, err := reservation.NewPeriod(date(2026, 3, 10), date(2026, 3, 10), now)
		assert.ErrorIs(t, err, reservation.ErrInvalidPeriod)

		_, err = reservation.NewPeriod(date(2026, 3, 10), date(2026, 3, 9), now)
		assert.ErrorIs(t, err, reservation.ErrInvalidPeriod)
	})

	t.Run("start cannot be in the past", func(t *testing.T) {
		_, err := reservation.NewPeriod(date(2026, 2, 28), date(2026, 3, 5), now)
		assert.ErrorIs(t, err, reservation.ErrPeriodInPast)
	})

	t.Run("start today is allowed", func(t *testing.T) {
		_, err := reservation.NewPeriod(now, date(2026, 3, 5), now)
		assert.NoError(t, err)
	})

	t.Run("times are truncated to dates", func(t *testing.T) {
		p, err := reservation.NewPeriod(
			time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
			now,
		)
		require.NoError(t, err)
		assert.Equal(t, date(2026, 3, 10), p.Start())
		assert.Equal(t, date(2026, 3, 12), p.End())
	})
}

func TestPeriodOverlaps(t *testing.T) {
	base := mustPeriod(t, date(2026, 3, 10), date(2026, 3, 15))

	cases := []struct {
		name     string
		other    reservation.Period
		overlaps bool
	}{
		{"identical", mustPeriod(t, date(2026, 3, 10), date(2026, 3, 15)), true},
		{"contained", mustPeriod(t, date(2026, 3, 11), date(2026, 3, 13)), true},
		{"straddles start", mustPeriod(t, date(2026, 3, 8), date(2026, 3, 11)), true},
		{"straddles end", mustPeriod(t, date(2026, 3, 14), date(2026, 3, 20)), true},
		{"back to back before", mustPeriod(t, date(2026, 3, 5), date(2026, 3, 10)), false},
		{"back to back after", mustPeriod(t, date(2026, 3, 15), date(2026, 3, 20)), false},
		{"disjoint", mustPeriod(t, date(2026, 4, 1), date(2026, 4, 5)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(base))
		})
	}
}

func TestPeriodDaysAndPrice(t *testing.T) {
	p := mustPeriod(t, date(2026, 3, 10), date(2026, 3, 13))
	assert.Equal(t, 3, p.Days())

	total, err := reservation.TotalPrice(decimal.NewFromInt(20), p.Days())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(60)))

	_, err = reservation.TotalPrice(decimal.NewFromInt(20), 0)
	assert.ErrorIs(t, err, reservation.ErrNegativeDaysArg)
}

func TestPeriodCalendarQueries(t *testing.T) {
	p := mustPeriod(t, date(2026, 3, 10), date(2026, 3, 13))

	t.Run("contains", func(t *testing.T) {
		assert.False(t, p.Contains(date(2026, 3, 9)))
		assert.True(t, p.Contains(date(2026, 3, 10)))
		assert.True(t, p.Contains(date(2026, 3, 12)))
		assert.False(t, p.Contains(date(2026, 3, 13)))
	})

	t.Run("has started by", func(t *testing.T) {
		assert.False(t, p.HasStartedBy(date(2026, 3, 9)))
		assert.True(t, p.HasStartedBy(date(2026, 3, 10)))
		assert.True(t, p.HasStartedBy(date(2026, 3, 20)))
	})

	t.Run("has ended by is strict", func(t *testing.T) {
		// On the end date itself the rental is still returning; it
		// completes the day after.
		assert.False(t, p.HasEndedBy(date(2026, 3, 12)))
		assert.False(t, p.HasEndedBy(date(2026, 3, 13)))
		assert.True(t, p.HasEndedBy(date(2026, 3, 14)))
	})
}
