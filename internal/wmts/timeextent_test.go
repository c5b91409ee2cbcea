package wmts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layer-timeline/internal/layers"
)

func TestParseTimeExtent(t *testing.T) {
	cases := []struct {
		extent   string
		start    time.Time
		end      time.Time
		period   layers.Period
		interval int
		ongoing  bool
	}{
		{
			extent:   "2013-01-01/2016-12-31/P1D",
			start:    time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2016, 12, 31, 0, 0, 0, 0, time.UTC),
			period:   layers.PeriodDaily,
			interval: 1,
		},
		{
			extent:   "2020-01-01/2020-12-27/P8D",
			start:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2020, 12, 27, 0, 0, 0, 0, time.UTC),
			period:   layers.PeriodDaily,
			interval: 8,
		},
		{
			extent:   "2002-08-01/2021-12-01/P1M",
			start:    time.Date(2002, 8, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC),
			period:   layers.PeriodMonthly,
			interval: 1,
		},
		{
			extent:   "2001-01-01/2020-01-01/P1Y",
			start:    time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			period:   layers.PeriodYearly,
			interval: 1,
		},
		{
			extent:   "2021-06-01T00:00:00Z/2021-06-02T00:00:00Z/PT10M",
			start:    time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC),
			period:   layers.PeriodSubdaily,
			interval: 10,
		},
		{
			extent:   "2021-06-01T00:00:00Z/2021-06-02T00:00:00Z/PT6H",
			start:    time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC),
			period:   layers.PeriodSubdaily,
			interval: 360,
		},
		{
			extent:   "2002-07-04/PRESENT/P1D",
			start:    time.Date(2002, 7, 4, 0, 0, 0, 0, time.UTC),
			period:   layers.PeriodDaily,
			interval: 1,
			ongoing:  true,
		},
	}

	for _, tc := range cases {
		r, period, interval, ongoing, err := ParseTimeExtent(tc.extent)
		require.NoError(t, err, tc.extent)

		assert.Equal(t, tc.start, r.StartDate, tc.extent)
		assert.Equal(t, tc.end, r.EndDate, tc.extent)
		assert.Equal(t, tc.period, period, tc.extent)
		assert.Equal(t, tc.interval, interval, tc.extent)
		assert.Equal(t, tc.ongoing, ongoing, tc.extent)
	}
}

func TestParseTimeExtentErrors(t *testing.T) {
	bad := []string{
		"",
		"2013-01-01/2016-12-31",        // missing period
		"13/2016-12-31/P1D",            // bad start
		"2013-01-01/never/P1D",         // bad end
		"2013-01-01/2016-12-31/1D",     // no P prefix
		"2013-01-01/2016-12-31/PxD",    // non-numeric count
		"2013-01-01/2016-12-31/P0D",    // zero count
		"2013-01-01/2016-12-31/P1W",    // unsupported unit
		"2013-01-01/2016-12-31/PT5S",   // unsupported sub-daily unit
	}
	for _, extent := range bad {
		_, _, _, _, err := ParseTimeExtent(extent)
		assert.Error(t, err, extent)
	}
}
