package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layer-timeline/internal/layers"
)

func TestAdjustActiveRangesLeavesOriginalUntouched(t *testing.T) {
	def := &layers.LayerDefinition{
		ID:     "rolling",
		Period: layers.PeriodDaily,
		DateRanges: []layers.DateRange{
			{StartDate: day(2020, 1, 1), EndDate: day(2020, 2, 20)},
		},
		Availability: &layers.Availability{RollingWindow: 7},
	}

	adjusted, diags := AdjustActiveRanges(def, day(2020, 2, 15))
	require.Empty(t, diags)

	assert.Equal(t, day(2020, 1, 1), def.DateRanges[0].StartDate, "catalog definition must not change")
	assert.NotEqual(t, def.DateRanges[0].StartDate, adjusted.DateRanges[0].StartDate)
}

func TestAdjustRollingWindowTrailsNow(t *testing.T) {
	def := &layers.LayerDefinition{
		ID:     "rolling",
		Period: layers.PeriodDaily,
		DateRanges: []layers.DateRange{
			{StartDate: day(2020, 1, 1), EndDate: day(2020, 2, 20)},
		},
		Availability: &layers.Availability{RollingWindow: 7},
	}

	adjusted, diags := AdjustActiveRanges(def, day(2020, 2, 15))
	require.Empty(t, diags)

	assert.Equal(t, day(2020, 2, 8), adjusted.DateRanges[0].StartDate)
	require.NotNil(t, adjusted.StartDate)
	assert.Equal(t, day(2020, 2, 8), *adjusted.StartDate)
}

func TestAdjustRollingWindowPrependsHistoricalRanges(t *testing.T) {
	def := &layers.LayerDefinition{
		ID:     "historic",
		Period: layers.PeriodDaily,
		DateRanges: []layers.DateRange{
			{StartDate: day(2020, 2, 1), EndDate: day(2020, 2, 20)},
		},
		Availability: &layers.Availability{
			RollingWindow: 7,
			// published newest first
			HistoricalRanges: []layers.DateRange{
				{StartDate: day(2019, 6, 1), EndDate: day(2019, 12, 31)},
				{StartDate: day(2018, 1, 1), EndDate: day(2018, 5, 31)},
			},
		},
	}

	adjusted, diags := AdjustActiveRanges(def, day(2020, 2, 15))
	require.Empty(t, diags)

	require.Len(t, adjusted.DateRanges, 3)
	assert.Equal(t, day(2018, 1, 1), adjusted.DateRanges[0].StartDate)
	assert.Equal(t, day(2019, 6, 1), adjusted.DateRanges[1].StartDate)
	assert.Equal(t, day(2020, 2, 1), adjusted.DateRanges[2].StartDate)
	require.NotNil(t, adjusted.StartDate)
	assert.Equal(t, day(2018, 1, 1), *adjusted.StartDate)
}

func TestAdjustOngoingSynthesizesYearlyShiftedRanges(t *testing.T) {
	def := &layers.LayerDefinition{
		ID:      "composite",
		Period:  layers.PeriodDaily,
		Ongoing: true,
		DateRanges: []layers.DateRange{
			{StartDate: day(2023, 1, 5), EndDate: day(2023, 3, 1), DateInterval: 8},
		},
	}
	now := day(2024, 3, 10)

	adjusted, diags := AdjustActiveRanges(def, now)
	require.Empty(t, diags)

	require.Len(t, adjusted.DateRanges, 2)
	synth := adjusted.DateRanges[1]
	assert.Equal(t, day(2024, 1, 5), synth.StartDate)
	assert.Equal(t, now, synth.EndDate)
	assert.Equal(t, 8, synth.DateInterval)
}

func TestAdjustOngoingStopsBeforeUnreachedSeason(t *testing.T) {
	// seasonal composite starting in June: the current year's shifted start
	// is still in the future, so no range is synthesized for it
	def := &layers.LayerDefinition{
		ID:      "seasonal",
		Period:  layers.PeriodDaily,
		Ongoing: true,
		DateRanges: []layers.DateRange{
			{StartDate: day(2022, 6, 1), EndDate: day(2022, 8, 15), DateInterval: 8},
		},
	}

	adjusted, diags := AdjustActiveRanges(def, day(2024, 3, 1))
	require.Empty(t, diags)

	require.Len(t, adjusted.DateRanges, 2)
	assert.Equal(t, day(2023, 6, 1), adjusted.DateRanges[1].StartDate)
	assert.Equal(t, day(2023, 12, 31), adjusted.DateRanges[1].EndDate)
}

func TestAdjustOngoingSkipsSingleIntervalLayers(t *testing.T) {
	def := &layers.LayerDefinition{
		ID:      "live",
		Period:  layers.PeriodDaily,
		Ongoing: true,
		DateRanges: []layers.DateRange{
			{StartDate: day(2023, 1, 1), EndDate: day(2023, 6, 1)},
		},
	}

	adjusted, _ := AdjustActiveRanges(def, day(2024, 3, 1))
	assert.Equal(t, def.DateRanges, adjusted.DateRanges)
}

func TestAdjustFutureExtension(t *testing.T) {
	def := &layers.LayerDefinition{
		ID:         "forecast",
		Period:     layers.PeriodDaily,
		FutureTime: "3D",
		DateRanges: []layers.DateRange{
			{StartDate: day(2024, 2, 1), EndDate: day(2024, 3, 1)},
		},
	}
	now := day(2024, 3, 1)

	adjusted, diags := AdjustActiveRanges(def, now)
	require.Empty(t, diags)

	require.NotNil(t, adjusted.EndDate)
	assert.Equal(t, day(2024, 3, 4), *adjusted.EndDate)
	assert.Equal(t, day(2024, 3, 4), adjusted.DateRanges[0].EndDate)
}

func TestAdjustFutureExtensionBadDeclaration(t *testing.T) {
	def := &layers.LayerDefinition{
		ID:         "broken",
		Period:     layers.PeriodDaily,
		FutureTime: "5X",
		DateRanges: []layers.DateRange{
			{StartDate: day(2024, 2, 1), EndDate: day(2024, 3, 1)},
		},
	}

	adjusted, diags := AdjustActiveRanges(def, day(2024, 3, 1))

	require.Len(t, diags, 1)
	assert.Equal(t, "broken", diags[0].LayerID)
	assert.Equal(t, day(2024, 3, 1), adjusted.DateRanges[0].EndDate, "bad declaration leaves ranges as-is")
}

func TestAdjustActiveRangesIdempotent(t *testing.T) {
	defs := []*layers.LayerDefinition{
		{
			ID:     "rolling",
			Period: layers.PeriodDaily,
			DateRanges: []layers.DateRange{
				{StartDate: day(2020, 1, 1), EndDate: day(2020, 2, 20)},
			},
			Availability: &layers.Availability{RollingWindow: 7},
		},
		{
			ID:     "historic",
			Period: layers.PeriodDaily,
			DateRanges: []layers.DateRange{
				{StartDate: day(2020, 2, 1), EndDate: day(2020, 2, 20)},
			},
			Availability: &layers.Availability{
				RollingWindow: 7,
				HistoricalRanges: []layers.DateRange{
					{StartDate: day(2018, 1, 1), EndDate: day(2018, 5, 31)},
				},
			},
		},
		{
			ID:      "composite",
			Period:  layers.PeriodDaily,
			Ongoing: true,
			DateRanges: []layers.DateRange{
				{StartDate: day(2023, 1, 5), EndDate: day(2023, 3, 1), DateInterval: 8},
			},
		},
		{
			ID:         "forecast",
			Period:     layers.PeriodDaily,
			FutureTime: "3D",
			DateRanges: []layers.DateRange{
				{StartDate: day(2024, 2, 1), EndDate: day(2024, 3, 1)},
			},
		},
	}
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	for _, def := range defs {
		once, _ := AdjustActiveRanges(def, now)
		twice, _ := AdjustActiveRanges(once, now)
		assert.Equal(t, once.DateRanges, twice.DateRanges, "layer %s not idempotent", def.ID)
	}
}
