package wmts

import (
	"fmt"
	"strconv"
	"strings"

	"layer-timeline/internal/common"
	"layer-timeline/internal/layers"
)

// ongoingEndToken marks an open-ended extent whose coverage runs to the
// present ("2002-07-04/PRESENT/P1D")
const ongoingEndToken = "PRESENT"

// ParseTimeExtent parses one WMTS time-dimension extent of the form
// "start/end/period", e.g. "2013-01-01/2016-12-31/P1D". The ISO 8601
// period token yields both the layer period and the date interval:
// P8D is a daily layer stepping every 8 days, PT10M a sub-daily layer
// stepping every 10 minutes.
//
// Ongoing reports whether the end token was the open-ended marker; the
// returned range's end is the zero time in that case and must be filled
// by the caller.
func ParseTimeExtent(extent string) (r layers.DateRange, period layers.Period, interval int, ongoing bool, err error) {
	parts := strings.Split(extent, "/")
	if len(parts) != 3 {
		err = fmt.Errorf("time extent %q is not start/end/period", extent)
		return
	}

	r.StartDate, err = common.ParseISO8601Time(parts[0])
	if err != nil {
		err = fmt.Errorf("time extent %q has a bad start: %w", extent, err)
		return
	}

	if strings.EqualFold(parts[1], ongoingEndToken) {
		ongoing = true
	} else {
		r.EndDate, err = common.ParseISO8601Time(parts[1])
		if err != nil {
			err = fmt.Errorf("time extent %q has a bad end: %w", extent, err)
			return
		}
	}

	period, interval, err = parsePeriodToken(parts[2])
	if err != nil {
		err = fmt.Errorf("time extent %q: %w", extent, err)
	}
	return
}

// parsePeriodToken decodes an ISO 8601 duration into a layer period and a
// date interval in period units
func parsePeriodToken(token string) (layers.Period, int, error) {
	upper := strings.ToUpper(token)
	if len(upper) < 3 || upper[0] != 'P' {
		return "", 0, fmt.Errorf("bad period token %q", token)
	}

	subdaily := strings.HasPrefix(upper, "PT")
	body := upper[1:]
	if subdaily {
		body = upper[2:]
	}

	unit := body[len(body)-1]
	n, err := strconv.Atoi(body[:len(body)-1])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("bad period count in %q", token)
	}

	if subdaily {
		switch unit {
		case 'M':
			return layers.PeriodSubdaily, n, nil
		case 'H':
			return layers.PeriodSubdaily, n * 60, nil
		}
		return "", 0, fmt.Errorf("unsupported sub-daily unit in %q", token)
	}

	switch unit {
	case 'D':
		return layers.PeriodDaily, n, nil
	case 'M':
		return layers.PeriodMonthly, n, nil
	case 'Y':
		return layers.PeriodYearly, n, nil
	}
	return "", 0, fmt.Errorf("unsupported period unit in %q", token)
}
