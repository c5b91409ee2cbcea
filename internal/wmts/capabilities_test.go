package wmts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layer-timeline/internal/common"
	"layer-timeline/internal/layers"
)

const sampleCapabilities = `<?xml version="1.0" encoding="UTF-8"?>
<Capabilities xmlns="http://www.opengis.net/wmts/1.0"
              xmlns:ows="http://www.opengis.net/ows/1.1"
              xmlns:xlink="http://www.w3.org/1999/xlink" version="1.0.0">
  <Contents>
    <Layer>
      <ows:Title>Corrected Reflectance (True Color)</ows:Title>
      <ows:Identifier>MODIS_Terra_CorrectedReflectance_TrueColor</ows:Identifier>
      <Dimension>
        <ows:Identifier>Time</ows:Identifier>
        <Default>2020-08-01</Default>
        <Value>2013-01-01/2016-12-31/P1D</Value>
        <Value>2017-01-01/PRESENT/P1D</Value>
      </Dimension>
    </Layer>
    <Layer>
      <ows:Title>Blue Marble</ows:Title>
      <ows:Identifier>BlueMarble_NextGeneration</ows:Identifier>
    </Layer>
  </Contents>
</Capabilities>`

func TestParseCapabilities(t *testing.T) {
	caps, err := ParseCapabilities([]byte(sampleCapabilities))
	require.NoError(t, err)

	require.Len(t, caps.Contents.Layers, 2)

	l := caps.Contents.Layers[0]
	assert.Equal(t, "MODIS_Terra_CorrectedReflectance_TrueColor", l.Identifier)
	assert.Equal(t, "Corrected Reflectance (True Color)", l.Title)
	require.Len(t, l.Dimensions, 1)
	assert.Equal(t, "Time", l.Dimensions[0].Identifier)
	assert.Len(t, l.Dimensions[0].Values, 2)

	assert.Empty(t, caps.Contents.Layers[1].Dimensions)
}

func TestParseCapabilitiesRejectsGarbage(t *testing.T) {
	_, err := ParseCapabilities([]byte("not xml at all <"))
	assert.Error(t, err)
}

func TestBuildCatalogFromCapabilities(t *testing.T) {
	caps, err := ParseCapabilities([]byte(sampleCapabilities))
	require.NoError(t, err)

	now := time.Date(2021, time.March, 10, 0, 0, 0, 0, time.UTC)
	catalog, diags, err := BuildCatalog(caps, now)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Equal(t, 2, catalog.Len())

	def, ok := catalog.Lookup("MODIS_Terra_CorrectedReflectance_TrueColor")
	require.True(t, ok)
	assert.Equal(t, layers.PeriodDaily, def.Period)
	assert.True(t, def.Ongoing)

	require.Len(t, def.DateRanges, 2)
	assert.Equal(t, time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC), def.DateRanges[0].StartDate)
	assert.Equal(t, time.Date(2016, 12, 31, 0, 0, 0, 0, time.UTC), def.DateRanges[0].EndDate)
	assert.Equal(t, now, def.DateRanges[1].EndDate, "open-ended extent closes at now")

	require.NotNil(t, def.StartDate)
	assert.Equal(t, def.DateRanges[0].StartDate, *def.StartDate)
	require.NotNil(t, def.EndDate)
	assert.Equal(t, now, *def.EndDate)

	require.NotNil(t, def.DefaultDate)
	assert.Equal(t, time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC), *def.DefaultDate)

	static, ok := catalog.Lookup("BlueMarble_NextGeneration")
	require.True(t, ok)
	assert.Empty(t, static.DateRanges)
}

func TestBuildDefinitionsEmptyContents(t *testing.T) {
	_, _, err := BuildDefinitions(&Capabilities{}, time.Now())
	assert.Error(t, err)
}

func TestBuildDefinitionsCommaSeparatedExtents(t *testing.T) {
	caps := &Capabilities{}
	caps.Contents.Layers = []Layer{{
		Identifier: "combined",
		Dimensions: []Dimension{{
			Identifier: "Time",
			Values:     []string{"2013-01-01/2014-01-01/P1D, 2015-01-01/2016-01-01/P1D"},
		}},
	}}

	defs, diags, err := BuildDefinitions(caps, time.Now())
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, defs, 1)
	assert.Len(t, defs[0].DateRanges, 2)
}

func TestBuildDefinitionsSkipsLayerWithBadExtent(t *testing.T) {
	caps := &Capabilities{}
	caps.Contents.Layers = []Layer{
		{
			Identifier: "broken",
			Dimensions: []Dimension{{
				Identifier: "Time",
				Values:     []string{"2013-01-01/2014-01-01/P1W"},
			}},
		},
		{
			Identifier: "good",
			Dimensions: []Dimension{{
				Identifier: "Time",
				Values:     []string{"2013-01-01/2014-01-01/P1D"},
			}},
		},
	}

	defs, diags, err := BuildDefinitions(caps, time.Now())
	require.NoError(t, err, "one bad layer must not abort the source")

	require.Len(t, defs, 1)
	assert.Equal(t, "good", defs[0].ID)

	require.Len(t, diags, 1)
	assert.Equal(t, common.DiagMissingRangeData, diags[0].Code)
	assert.Equal(t, "broken", diags[0].LayerID)
}
