package main

import (
	"fmt"
	"time"

	"layer-timeline/internal/common"
	"layer-timeline/internal/daterange"
	"layer-timeline/internal/layers"
)

// =================
// Date Availability
// =================

// GetAvailableDates resolves the dates on which a layer has imagery around
// the requested date. startLimit/endLimit bound the resolution to the
// coverage panel's visible window and may be empty. Dates are returned as
// ISO 8601 strings, calendar dates for daily and coarser layers and full
// instants for sub-daily layers.
func (a *App) GetAvailableDates(layerID, requestedDate, startLimit, endLimit string) ([]string, error) {
	def, err := a.GetLayer(layerID)
	if err != nil {
		return nil, err
	}

	requested, err := common.ParseISO8601Time(requestedDate)
	if err != nil {
		return nil, fmt.Errorf("bad requested date %q: %w", requestedDate, err)
	}

	var start, end *time.Time
	if startLimit != "" {
		t, err := common.ParseISO8601Time(startLimit)
		if err != nil {
			return nil, fmt.Errorf("bad start limit %q: %w", startLimit, err)
		}
		start = &t
	}
	if endLimit != "" {
		t, err := common.ParseISO8601Time(endLimit)
		if err != nil {
			return nil, fmt.Errorf("bad end limit %q: %w", endLimit, err)
		}
		end = &t
	}

	now := a.appNow()

	// dynamic availability first, then resolution against the adjusted copy
	adjusted, diags := daterange.AdjustActiveRanges(def, now)
	dates, resolveDiags := daterange.ResolveDates(adjusted, requested, start, end, now)
	a.logDiagnostics(append(diags, resolveDiags...))

	out := make([]string, len(dates))
	for i, d := range dates {
		if def.Period == layers.PeriodSubdaily {
			out[i] = common.FormatISO8601Time(d)
		} else {
			out[i] = common.FormatISO8601(d)
		}
	}

	a.TrackEvent("dates_resolved", map[string]interface{}{
		"period": string(def.Period),
		"count":  len(out),
	})

	return out, nil
}

// CheckRangeOverlap reports whether a layer's declared ranges collide once
// their intervals are accounted for
func (a *App) CheckRangeOverlap(layerID string) (daterange.OverlapReport, error) {
	def, err := a.GetLayer(layerID)
	if err != nil {
		return daterange.OverlapReport{}, err
	}
	return daterange.DetectOverlap(def.Period, def.DateRanges), nil
}
