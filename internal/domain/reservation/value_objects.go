package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPeriod   = errors.New("end date must be after start date")
	ErrPeriodInPast    = errors.New("start date cannot be in the past")
	ErrNegativeDaysArg = errors.New("day count must be positive")
)

// Period is a half-open date interval [start, end). Dates are stored at
// midnight UTC; a reservation ending on a given date frees the object for
// a new reservation starting that same date.
type Period struct {
	start time.Time
	end   time.Time
}

func NewPeriod(start, end, now time.Time) (Period, error) {
	start = normalize(start)
	end = normalize(end)

	if !end.After(start) {
		return Period{}, ErrInvalidPeriod
	}
	if start.Before(normalize(now)) {
		return Period{}, ErrPeriodInPast
	}

	return Period{start: start, end: end}, nil
}

// ReconstructPeriod rebuilds a stored period without the creation-time
// guards; persisted reservations may legitimately lie in the past.
func ReconstructPeriod(start, end time.Time) Period {
	return Period{start: normalize(start), end: normalize(end)}
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

func (p Period) Start() time.Time {
	return p.start
}

func (p Period) End() time.Time {
	return p.end
}

// Overlaps uses the half-open rule: [s1,e1) and [s2,e2) overlap iff
// s1 < e2 && s2 < e1.
func (p Period) Overlaps(other Period) bool {
	return p.start.Before(other.end) && other.start.Before(p.end)
}

// Days is the number of billable days; any partial day counts as a full one.
func (p Period) Days() int {
	hours := p.end.Sub(p.start).Hours()
	days := int(hours / 24)
	if hours > float64(days)*24 {
		days++
	}
	return days
}

// Contains reports whether the date falls inside the period.
func (p Period) Contains(date time.Time) bool {
	d := normalize(date)
	return !d.Before(p.start) && d.Before(p.end)
}

// HasStartedBy reports whether the period has begun on the given date.
func (p Period) HasStartedBy(date time.Time) bool {
	return !normalize(date).Before(p.start)
}

// HasEndedBy reports whether the given date is strictly past the end date.
// The rental completes the day after it ends, which is when the reconciler
// promotes it.
func (p Period) HasEndedBy(date time.Time) bool {
	return normalize(date).After(p.end)
}

func (p Period) String() string {
	return fmt.Sprintf("[%s,%s)", p.start.Format("2006-01-02"), p.end.Format("2006-01-02"))
}

// TotalPrice computes price_per_day × billable days.
func TotalPrice(pricePerDay decimal.Decimal, days int) (decimal.Decimal, error) {
	if days <= 0 {
		return decimal.Zero, ErrNegativeDaysArg
	}
	return pricePerDay.Mul(decimal.NewFromInt(int64(days))), nil
}
