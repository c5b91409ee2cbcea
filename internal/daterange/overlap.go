package daterange

import (
	"sort"

	"layer-timeline/internal/layers"
)

// OverlapPair identifies two declared ranges whose coverage collides
type OverlapPair struct {
	Prior layers.DateRange `json:"prior"`
	Next  layers.DateRange `json:"next"`
}

// OverlapReport is the result of checking a layer's ranges for overlap
type OverlapReport struct {
	Overlap bool          `json:"overlap"`
	Pairs   []OverlapPair `json:"pairs,omitempty"`
}

// DetectOverlap reports whether any pair of ranges overlaps once each
// range's end is extended by its interval. Ranges are sorted by start date
// (stable on ties) and every adjacent collision is reported, not just the
// first. Overlap is an authoring anomaly in the layer catalog; it is
// reported, never auto-corrected.
func DetectOverlap(period layers.Period, ranges []layers.DateRange) OverlapReport {
	if len(ranges) < 2 {
		return OverlapReport{}
	}

	sorted := append([]layers.DateRange(nil), ranges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	var report OverlapReport
	for i := 0; i < len(sorted)-1; i++ {
		prior, next := sorted[i], sorted[i+1]

		// a range with interval n effectively covers n-1 extra period
		// units past its declared end before the next date would land
		effectiveEnd := AddPeriods(prior.EndDate.UTC(), period, prior.Interval()-1)

		if !effectiveEnd.Before(next.StartDate.UTC()) {
			report.Overlap = true
			report.Pairs = append(report.Pairs, OverlapPair{Prior: prior, Next: next})
		}
	}
	return report
}
