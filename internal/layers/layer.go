package layers

import (
	"time"
)

// Period is the calendar granularity of a layer's temporal coverage
type Period string

const (
	PeriodYearly   Period = "yearly"
	PeriodMonthly  Period = "monthly"
	PeriodDaily    Period = "daily"
	PeriodSubdaily Period = "subdaily"
)

// DateRange describes one contiguous span of a layer's availability.
// StartDate is inclusive; EndDate closes the span at period granularity
// (a range whose start equals its end covers exactly one instant).
// DateInterval is the step between available dates in period units;
// zero means the default of 1.
type DateRange struct {
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	DateInterval int       `json:"dateInterval,omitempty"`
}

// Interval returns the effective date interval (minimum 1)
func (r DateRange) Interval() int {
	if r.DateInterval < 1 {
		return 1
	}
	return r.DateInterval
}

// Instant reports whether the range covers a single instant
func (r DateRange) Instant() bool {
	return r.StartDate.Equal(r.EndDate)
}

// Availability describes dynamic availability rules for a layer
type Availability struct {
	// RollingWindow is a trailing window length in days; when set, the
	// layer's coverage begins RollingWindow days before "now"
	RollingWindow int `json:"rollingWindow,omitempty"`

	// HistoricalRanges are fixed past coverage spans that remain valid
	// outside the rolling window, newest first as published
	HistoricalRanges []DateRange `json:"historicalRanges,omitempty"`
}

// LayerDefinition is a catalog entry for one imagery layer.
// Definitions are read-only inputs to date resolution; adjustment passes
// operate on copies (see Clone) so the catalog is never mutated.
type LayerDefinition struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Group      string `json:"group,omitempty"`      // "baselayers" or "overlays"
	LayerGroup string `json:"layergroup,omitempty"` // display bucket within overlays

	Period Period `json:"period"`

	// Ongoing marks coverage as extending to the present; the last
	// declared range's end is implicitly "now"
	Ongoing bool `json:"ongoing,omitempty"`

	// FutureTime extends coverage into the future, e.g. "3D", "1M", "90T"
	// (T = minutes, for sub-daily layers)
	FutureTime string `json:"futureTime,omitempty"`

	Availability *Availability `json:"availability,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// DefaultDate is the provider's suggested initial date, when published
	DefaultDate *time.Time `json:"defaultDate,omitempty"`

	// DateRanges are chronologically non-decreasing by start date.
	// Overlap between ranges is a detectable anomaly, not auto-corrected.
	DateRanges []DateRange `json:"dateRanges,omitempty"`

	// Visual defaults; a layer with none of these set serializes to a
	// bare id in a permalink
	BandCombo    string   `json:"bandCombo,omitempty"`
	Palettes     []string `json:"palettes,omitempty"`
	VectorStyles []string `json:"vectorStyles,omitempty"`
	GranuleCount int      `json:"granuleCount,omitempty"`
}

// DefaultGranuleCount is the granule count assumed when a layer carries none
const DefaultGranuleCount = 20

// Clone returns a deep copy of the definition.
// Adjustment passes mutate the copy and leave the catalog entry intact.
func (l *LayerDefinition) Clone() *LayerDefinition {
	if l == nil {
		return nil
	}
	c := *l
	if l.StartDate != nil {
		t := *l.StartDate
		c.StartDate = &t
	}
	if l.EndDate != nil {
		t := *l.EndDate
		c.EndDate = &t
	}
	if l.DefaultDate != nil {
		t := *l.DefaultDate
		c.DefaultDate = &t
	}
	if l.Availability != nil {
		a := *l.Availability
		a.HistoricalRanges = append([]DateRange(nil), l.Availability.HistoricalRanges...)
		c.Availability = &a
	}
	c.DateRanges = append([]DateRange(nil), l.DateRanges...)
	c.Palettes = append([]string(nil), l.Palettes...)
	c.VectorStyles = append([]string(nil), l.VectorStyles...)
	return &c
}
