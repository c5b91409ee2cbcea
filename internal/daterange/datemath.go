package daterange

import (
	"fmt"
	"strconv"
	"time"

	"layer-timeline/internal/layers"
)

// All date arithmetic in this package operates in UTC. Incoming instants
// are normalized once so that layer coverage is evaluated against a single
// timezone regardless of the host machine's locale.

// RoundToPeriod zeroes an instant to the granularity of a period:
// yearly snaps to Jan 1, monthly to the first of the month, daily to
// midnight, sub-daily to the whole minute.
func RoundToPeriod(t time.Time, period layers.Period) time.Time {
	t = t.UTC()
	switch period {
	case layers.PeriodYearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case layers.PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case layers.PeriodDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case layers.PeriodSubdaily:
		return t.Truncate(time.Minute)
	default:
		return t
	}
}

// AddPeriods advances an instant by n period units (n may be negative).
// Sub-daily units are minutes.
func AddPeriods(t time.Time, period layers.Period, n int) time.Time {
	t = t.UTC()
	switch period {
	case layers.PeriodYearly:
		return t.AddDate(n, 0, 0)
	case layers.PeriodMonthly:
		return t.AddDate(0, n, 0)
	case layers.PeriodDaily:
		return t.AddDate(0, 0, n)
	case layers.PeriodSubdaily:
		return t.Add(time.Duration(n) * time.Minute)
	default:
		return t
	}
}

// stepFrom computes the i-th stepped instant anchored to a range start.
// Anchoring keeps the start's month and day (or day, or clock time) fixed
// rather than accumulating AddDate normalization drift across steps.
func stepFrom(start time.Time, period layers.Period, i int) time.Time {
	start = start.UTC()
	switch period {
	case layers.PeriodYearly:
		return time.Date(start.Year()+i, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	case layers.PeriodMonthly:
		return time.Date(start.Year(), start.Month()+time.Month(i), start.Day(), 0, 0, 0, 0, time.UTC)
	case layers.PeriodDaily:
		return start.AddDate(0, 0, i)
	case layers.PeriodSubdaily:
		return start.Add(time.Duration(i) * time.Minute)
	default:
		return start
	}
}

// DiffDays returns the whole number of days from a to b (floor)
func DiffDays(a, b time.Time) int {
	return int(b.UTC().Sub(a.UTC()) / (24 * time.Hour))
}

// DiffMonths returns the number of calendar months from a to b
func DiffMonths(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// DiffYears returns the number of calendar years from a to b
func DiffYears(a, b time.Time) int {
	return b.UTC().Year() - a.UTC().Year()
}

// diffPeriods returns an upper bound on the number of whole period units
// from a to b, used to ceil-divide traversal loop bounds
func diffPeriods(a, b time.Time, period layers.Period) int {
	switch period {
	case layers.PeriodYearly:
		return DiffYears(a, b) + 1
	case layers.PeriodMonthly:
		return DiffMonths(a, b) + 1
	case layers.PeriodDaily:
		return DiffDays(a, b) + 1
	case layers.PeriodSubdaily:
		return int(b.UTC().Sub(a.UTC())/time.Minute) + 1
	default:
		return 0
	}
}

// ParseFutureTime parses a future-extension declaration of the form
// "<n><unit>" where unit is D (days), M (months), Y (years) or T (minutes,
// for sub-daily layers), e.g. "3D", "1M", "90T".
func ParseFutureTime(s string) (func(time.Time) time.Time, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("future time %q is too short", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return nil, fmt.Errorf("future time %q has a non-numeric count: %w", s, err)
	}
	switch s[len(s)-1] {
	case 'D':
		return func(t time.Time) time.Time { return t.UTC().AddDate(0, 0, n) }, nil
	case 'M':
		return func(t time.Time) time.Time { return t.UTC().AddDate(0, n, 0) }, nil
	case 'Y':
		return func(t time.Time) time.Time { return t.UTC().AddDate(n, 0, 0) }, nil
	case 'T':
		return func(t time.Time) time.Time { return t.UTC().Add(time.Duration(n) * time.Minute) }, nil
	}
	return nil, fmt.Errorf("future time %q has an unknown unit", s)
}
