package daterange

import (
	"time"

	"layer-timeline/internal/common"
	"layer-timeline/internal/layers"
)

// subdailyWindow is the pad applied around the requested instant (or the
// supplied limits) when stepping sub-daily layers. Without it a sub-daily
// request could enumerate an entire layer history at minute granularity.
const subdailyWindow = 60 * time.Minute

// ResolveDates computes the dates on which a layer has imagery, around a
// requested date, optionally bounded by outer limits (the coverage panel's
// visible window). The returned sequence is strictly ascending with no
// duplicate instants; every instant lies within one of the layer's declared
// ranges (end dates are inclusive at period granularity).
//
// Two modes:
//   - limited: a single range with interval 1 and no limits yields at most
//     the period units immediately before, at, and after the requested date
//   - full traversal: every declared range is stepped at its interval
//
// now supplies the current instant for ongoing layers; callers pass the
// application clock so resolution stays a pure function.
func ResolveDates(layer *layers.LayerDefinition, requested time.Time, startLimit, endLimit *time.Time, now time.Time) ([]time.Time, []common.Diagnostic) {
	if layer == nil || len(layer.DateRanges) == 0 {
		return nil, nil
	}

	requested = requested.UTC()
	now = now.UTC()

	if startLimit == nil && endLimit == nil &&
		len(layer.DateRanges) == 1 && layer.DateRanges[0].Interval() == 1 &&
		layer.Period != layers.PeriodSubdaily {
		return limitedDates(layer, requested), nil
	}

	return traverseRanges(layer, requested, startLimit, endLimit, now)
}

// limitedDates returns the period unit before the requested date, the
// requested date zeroed to period granularity, and the unit after, each
// included only if it falls within [start, end + one unit).
func limitedDates(layer *layers.LayerDefinition, requested time.Time) []time.Time {
	r := layer.DateRanges[0]
	period := layer.Period
	start := r.StartDate.UTC()
	breakMax := AddPeriods(r.EndDate.UTC(), period, 1)

	current := anchorToPeriod(requested, start, period)

	candidates := []time.Time{
		AddPeriods(current, period, -1),
		current,
		AddPeriods(current, period, 1),
	}

	dates := make([]time.Time, 0, 3)
	for _, c := range candidates {
		if !c.Before(start) && c.Before(breakMax) {
			dates = append(dates, c)
		}
	}
	return dates
}

// anchorToPeriod zeroes the requested date to period granularity, keeping
// the month/day (or day) anchored to the range's start. A requested date
// already on a period boundary is returned as-is.
func anchorToPeriod(requested, start time.Time, period layers.Period) time.Time {
	if requested.Equal(RoundToPeriod(requested, period)) {
		return requested
	}
	switch period {
	case layers.PeriodYearly:
		return time.Date(requested.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	case layers.PeriodMonthly:
		return time.Date(requested.Year(), requested.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return RoundToPeriod(requested, period)
	}
}

// traverseRanges walks every declared range in order, steps each one at its
// interval, and merges the results into a single ascending sequence.
func traverseRanges(layer *layers.LayerDefinition, requested time.Time, startLimit, endLimit *time.Time, now time.Time) ([]time.Time, []common.Diagnostic) {
	var dates []time.Time
	var diags []common.Diagnostic

	period := layer.Period
	for i, r := range layer.DateRanges {
		rStart := r.StartDate.UTC()
		rEnd := r.EndDate.UTC()

		if rEnd.Before(rStart) {
			diags = append(diags, common.Diagf(common.DiagMissingRangeData, layer.ID,
				"range %d ends %s before it starts %s", i,
				common.FormatISO8601Time(rEnd), common.FormatISO8601Time(rStart)))
			continue
		}

		// single-instant ranges are emitted directly
		if r.Instant() {
			if withinLimits(rStart, startLimit, endLimit) {
				dates = mergeDates(dates, []time.Time{rStart})
			}
			continue
		}

		// the last range of an ongoing layer runs to the present unless a
		// future extension already fixed its literal end
		stopBefore := AddPeriods(rEnd, period, 1)
		if i == len(layer.DateRanges)-1 && layer.Ongoing && layer.FutureTime == "" {
			stopBefore = now
		}
		if endLimit != nil {
			if lim := AddPeriods(endLimit.UTC(), period, 1); lim.Before(stopBefore) {
				stopBefore = lim
			}
		}
		if !rStart.Before(stopBefore) {
			continue
		}

		var stepped []time.Time
		if period == layers.PeriodSubdaily {
			stepped = stepSubdaily(rStart, stopBefore, r.Interval(), requested, startLimit, endLimit)
		} else {
			stepped = stepCalendar(period, rStart, stopBefore, r.Interval(), startLimit)
		}
		dates = mergeDates(dates, stepped)
	}

	return dates, diags
}

// stepCalendar walks a yearly/monthly/daily range from its (possibly
// limit-revised) start to stopBefore in interval-sized period steps.
func stepCalendar(period layers.Period, rStart, stopBefore time.Time, interval int, startLimit *time.Time) []time.Time {
	revised := revisedStart(period, rStart, interval, startLimit)

	// ceil-divided bound; out-of-range instants are filtered below
	maxSteps := diffPeriods(rStart, stopBefore, period)/interval + 2

	var out []time.Time
	for i := 0; i < maxSteps; i++ {
		t := stepFrom(rStart, period, i*interval)
		if t.Before(revised) {
			continue
		}
		if !t.Before(stopBefore) {
			break
		}
		out = append(out, t)
	}
	return out
}

// revisedStart computes where emission begins when an outer start limit is
// supplied: stepping forward from the range start until reaching the limit,
// then backing up to the immediately-preceding stepped instant. The
// preceding instant is kept so the window's left edge still has coverage,
// while staying phase-aligned with what the data provider actually serves.
func revisedStart(period layers.Period, rStart time.Time, interval int, startLimit *time.Time) time.Time {
	if startLimit == nil {
		return rStart
	}
	limit := startLimit.UTC()
	if !rStart.Before(limit) {
		return rStart
	}

	steps := diffPeriods(rStart, limit, period) / interval
	prev := stepFrom(rStart, period, steps*interval)
	for prev.After(limit) && steps > 0 {
		steps--
		prev = stepFrom(rStart, period, steps*interval)
	}
	return prev
}

// stepSubdaily narrows sub-daily stepping to a window around the requested
// instant (or around the supplied limits) and walks it in interval-minute
// steps aligned to the range start.
func stepSubdaily(rStart, stopBefore time.Time, interval int, requested time.Time, startLimit, endLimit *time.Time) []time.Time {
	windowStart := requested.Add(-subdailyWindow)
	windowEnd := requested.Add(subdailyWindow)
	if startLimit != nil {
		windowStart = startLimit.UTC().Add(-subdailyWindow)
	}
	if endLimit != nil {
		windowEnd = endLimit.UTC().Add(subdailyWindow)
	}

	if windowStart.Before(rStart) {
		windowStart = rStart
	}
	if windowEnd.After(stopBefore) {
		windowEnd = stopBefore
	}
	if windowEnd.Before(windowStart) {
		return nil
	}

	// first step at or after the window start, phase-aligned to the range
	stepMin := time.Duration(interval) * time.Minute
	offset := windowStart.Sub(rStart)
	first := offset / stepMin
	if offset%stepMin != 0 {
		first++
	}

	var out []time.Time
	var last time.Time
	for i := first; ; i++ {
		t := rStart.Add(time.Duration(i) * stepMin)
		if t.After(windowEnd) || !t.Before(stopBefore) {
			break
		}
		// guard against stepping backward relative to the last emitted instant
		if !last.IsZero() && !t.After(last) {
			continue
		}
		out = append(out, t)
		last = t
	}
	return out
}

// withinLimits reports whether an instant passes both optional limit checks
func withinLimits(t time.Time, startLimit, endLimit *time.Time) bool {
	if startLimit != nil && t.Before(startLimit.UTC()) {
		return false
	}
	if endLimit != nil && t.After(endLimit.UTC()) {
		return false
	}
	return true
}

// mergeDates merges two ascending sequences into a new strictly ascending,
// duplicate-free sequence. Ranges may overlap or abut; merging into a fresh
// slice (instead of popping and re-inserting in place) keeps resolution a
// pure function.
func mergeDates(a, b []time.Time) []time.Time {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}

	out := make([]time.Time, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next time.Time
		switch {
		case i == len(a):
			next = b[j]
			j++
		case j == len(b):
			next = a[i]
			i++
		case a[i].Before(b[j]):
			next = a[i]
			i++
		case b[j].Before(a[i]):
			next = b[j]
			j++
		default: // equal instants collapse to one
			next = a[i]
			i++
			j++
		}
		if len(out) == 0 || next.After(out[len(out)-1]) {
			out = append(out, next)
		}
	}
	return out
}
