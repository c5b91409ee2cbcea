package daterange

import (
	"time"

	"layer-timeline/internal/common"
	"layer-timeline/internal/layers"
)

// AdjustActiveRanges rewrites a layer's declared ranges to reflect its
// dynamic availability at the given instant: rolling-window start dates,
// ongoing multi-interval coverage extended to the present, and future
// extensions. The catalog definition is never touched; the adjusted copy
// is returned so callers can reason about before and after independently.
//
// Applying the adjustment twice with the same now yields the same ranges
// as applying it once.
func AdjustActiveRanges(def *layers.LayerDefinition, now time.Time) (*layers.LayerDefinition, []common.Diagnostic) {
	if def == nil {
		return nil, nil
	}

	l := def.Clone()
	now = now.UTC()

	var diags []common.Diagnostic
	diags = append(diags, applyRollingWindow(l, now)...)
	diags = append(diags, applyOngoingExtension(l, now)...)
	diags = append(diags, applyFutureExtension(l, now)...)
	return l, diags
}

// applyRollingWindow rewrites the first range's start to trail the present
// by the declared window, or prepends fixed historical ranges when the
// layer declares them.
func applyRollingWindow(l *layers.LayerDefinition, now time.Time) []common.Diagnostic {
	if l.Availability == nil || l.Availability.RollingWindow <= 0 {
		return nil
	}
	if len(l.DateRanges) == 0 {
		return []common.Diagnostic{common.Diagf(common.DiagMissingRangeData, l.ID,
			"rolling window declared but layer has no date ranges")}
	}

	if hist := l.Availability.HistoricalRanges; len(hist) > 0 {
		// historical ranges are published newest first; prepend them in
		// chronological order ahead of the live ranges
		chrono := make([]layers.DateRange, len(hist))
		for i, r := range hist {
			chrono[len(hist)-1-i] = r
		}
		earliest := chrono[0].StartDate.UTC()

		// skip the prepend if an earlier adjustment already applied it
		if !l.DateRanges[0].StartDate.Equal(chrono[0].StartDate) {
			l.DateRanges = append(chrono, l.DateRanges...)
		}
		l.StartDate = &earliest
		return nil
	}

	start := RoundToPeriod(now.AddDate(0, 0, -l.Availability.RollingWindow), l.Period)
	l.DateRanges[0].StartDate = start
	l.StartDate = &start
	return nil
}

// applyOngoingExtension extends an ongoing multi-interval layer's coverage
// to the current year by synthesizing yearly-shifted ranges. Single-interval
// ongoing layers need no synthesis: the resolver treats their last range's
// end as "now" directly.
func applyOngoingExtension(l *layers.LayerDefinition, now time.Time) []common.Diagnostic {
	if !l.Ongoing || l.Period == layers.PeriodSubdaily || len(l.DateRanges) == 0 {
		return nil
	}

	lastIdx := len(l.DateRanges) - 1
	last := l.DateRanges[lastIdx]
	if last.Interval() <= 1 {
		return nil
	}

	if last.StartDate.UTC().Year() == now.Year() {
		l.DateRanges[lastIdx].EndDate = now
		return nil
	}

	// cap the declared range at its own year boundary, then append one
	// range per following year, never extending past the present
	startYear := last.StartDate.UTC().Year()
	boundary := endOfYear(startYear)
	if last.EndDate.UTC().After(boundary) {
		l.DateRanges[lastIdx].EndDate = boundary
	}

	for year := startYear + 1; year <= now.Year(); year++ {
		start := shiftToYear(last.StartDate.UTC(), year)
		if start.After(now) {
			break
		}
		end := endOfYear(year)
		if end.After(now) {
			end = now
		}
		l.DateRanges = append(l.DateRanges, layers.DateRange{
			StartDate:    start,
			EndDate:      end,
			DateInterval: last.DateInterval,
		})
	}
	return nil
}

// applyFutureExtension moves the layer's end (and its last range's end)
// forward by the declared future duration.
func applyFutureExtension(l *layers.LayerDefinition, now time.Time) []common.Diagnostic {
	if l.FutureTime == "" {
		return nil
	}

	extend, err := ParseFutureTime(l.FutureTime)
	if err != nil {
		return []common.Diagnostic{common.Diagf(common.DiagMissingRangeData, l.ID,
			"unusable future time: %v", err)}
	}
	if len(l.DateRanges) == 0 {
		return []common.Diagnostic{common.Diagf(common.DiagMissingRangeData, l.ID,
			"future time declared but layer has no date ranges")}
	}

	future := extend(now)
	l.EndDate = &future
	l.DateRanges[len(l.DateRanges)-1].EndDate = future
	return nil
}

func endOfYear(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// shiftToYear moves an instant to the same month/day in another year
func shiftToYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
