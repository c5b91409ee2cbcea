package wmts

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"layer-timeline/internal/common"
	"layer-timeline/internal/layers"
)

// WMTS XML structures for parsing capabilities
type Capabilities struct {
	XMLName  xml.Name `xml:"Capabilities"`
	Contents Contents `xml:"Contents"`
}

type Contents struct {
	Layers []Layer `xml:"Layer"`
}

type Layer struct {
	Title      string      `xml:"http://www.opengis.net/ows/1.1 Title"`
	Abstract   string      `xml:"http://www.opengis.net/ows/1.1 Abstract"`
	Identifier string      `xml:"http://www.opengis.net/ows/1.1 Identifier"`
	Dimensions []Dimension `xml:"Dimension"`
	Metadata   []Metadata  `xml:"http://www.opengis.net/ows/1.1 Metadata"`
}

// Dimension carries a layer's extra axes; the Time dimension publishes the
// layer's temporal coverage as start/end/period triples
type Dimension struct {
	Identifier string   `xml:"http://www.opengis.net/ows/1.1 Identifier"`
	Default    string   `xml:"Default"`
	Values     []string `xml:"Value"`
}

type Metadata struct {
	Role string `xml:"http://www.w3.org/1999/xlink role,attr"`
	Href string `xml:"http://www.w3.org/1999/xlink href,attr"`
}

// FetchRaw fetches a capabilities document without parsing it, for callers
// that cache the raw bytes
func FetchRaw(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch capabilities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch capabilities: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// FetchCapabilities fetches and parses WMTS capabilities from URL
func FetchCapabilities(url string) (*Capabilities, error) {
	data, err := FetchRaw(url)
	if err != nil {
		return nil, err
	}
	return ParseCapabilities(data)
}

// ParseCapabilities parses a capabilities XML document
func ParseCapabilities(data []byte) (*Capabilities, error) {
	var caps Capabilities
	if err := xml.Unmarshal(data, &caps); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return &caps, nil
}

// BuildCatalog converts a capabilities document into a layer catalog.
// Layers without a Time dimension are published as static (no date ranges);
// layers whose Time dimension carries the open-ended end marker are marked
// ongoing, with their last range closed at now.
func BuildCatalog(caps *Capabilities, now time.Time) (*layers.Catalog, []common.Diagnostic, error) {
	defs, diags, err := BuildDefinitions(caps, now)
	if err != nil {
		return nil, diags, err
	}
	return layers.NewCatalog(defs), diags, nil
}

// BuildDefinitions converts a capabilities document into layer definitions,
// for callers merging several catalog sources. A layer whose Time dimension
// fails to parse is skipped with a diagnostic; the rest of the document
// still yields a catalog.
func BuildDefinitions(caps *Capabilities, now time.Time) ([]*layers.LayerDefinition, []common.Diagnostic, error) {
	if len(caps.Contents.Layers) == 0 {
		return nil, nil, fmt.Errorf("no layers found in capabilities")
	}

	var diags []common.Diagnostic
	defs := make([]*layers.LayerDefinition, 0, len(caps.Contents.Layers))
	for _, l := range caps.Contents.Layers {
		def := &layers.LayerDefinition{
			ID:    l.Identifier,
			Title: l.Title,
			Group: "overlays",
		}

		skip := false
		for _, dim := range l.Dimensions {
			if !strings.EqualFold(dim.Identifier, "Time") {
				continue
			}
			if err := applyTimeDimension(def, dim, now); err != nil {
				diags = append(diags, common.Diagf(common.DiagMissingRangeData, l.Identifier,
					"layer skipped: %v", err))
				skip = true
			}
			break
		}
		if skip {
			continue
		}

		defs = append(defs, def)
	}

	return defs, diags, nil
}

// applyTimeDimension fills a definition's period and date ranges from a
// WMTS Time dimension
func applyTimeDimension(def *layers.LayerDefinition, dim Dimension, now time.Time) error {
	for _, value := range dim.Values {
		// a single Value element may carry several comma-separated extents
		for _, extent := range strings.Split(value, ",") {
			extent = strings.TrimSpace(extent)
			if extent == "" {
				continue
			}
			r, period, interval, ongoing, err := ParseTimeExtent(extent)
			if err != nil {
				return err
			}
			r.DateInterval = interval
			if ongoing {
				def.Ongoing = true
				r.EndDate = now.UTC()
			}
			def.Period = period
			def.DateRanges = append(def.DateRanges, r)
		}
	}

	if n := len(def.DateRanges); n > 0 {
		start := def.DateRanges[0].StartDate
		end := def.DateRanges[n-1].EndDate
		def.StartDate = &start
		def.EndDate = &end
	}

	if dim.Default != "" {
		if d, err := common.ParseISO8601Time(dim.Default); err == nil {
			def.DefaultDate = &d
		}
		// an unparsable default is dropped; coverage itself is unaffected
	}
	return nil
}
