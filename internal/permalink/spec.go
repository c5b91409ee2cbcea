package permalink

import (
	"strconv"
	"strings"

	"layer-timeline/internal/common"
	"layer-timeline/internal/layers"
)

// Attribute is one key[=value] entry from a layer token's parenthesized
// list. A bare key with no value parses as the boolean literal "true".
type Attribute struct {
	ID    string `json:"id"`
	Value string `json:"value,omitempty"`
}

// LayerState is one layer's entry in a parsed permalink: the catalog id
// plus its raw attribute list, in wire order
type LayerState struct {
	ID         string      `json:"id"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Spec is the interpreted form of a layer's attributes. Optional fields
// distinguish "absent" from "provided but empty": a nil slice means the
// attribute never appeared, an empty slice means it appeared with no
// entries, and a nil element means an explicitly empty slot.
type Spec struct {
	Visible bool     `json:"visible"`
	Opacity float64  `json:"opacity"`
	Bands   []string `json:"bands,omitempty"`

	// BandCombo is a band-combination expression; it travels the wire
	// percent-encoded with parentheses swapped for angle brackets so it
	// survives the token grammar
	BandCombo string `json:"bandCombo,omitempty"`

	// Custom holds palette or vector-style override ids; the two
	// attribute keys share this slot
	Custom []string `json:"custom,omitempty"`

	Min    []*float64 `json:"min,omitempty"`
	Max    []*float64 `json:"max,omitempty"`
	Squash []bool     `json:"squash,omitempty"`

	// Disabled lists sub-layer ids switched off within the layer
	Disabled []string `json:"disabled,omitempty"`

	// Count is the granule count for granule-based layers
	Count int `json:"count"`
}

// DefaultSpec returns the spec of a layer with no attributes
func DefaultSpec() Spec {
	return Spec{
		Visible: true,
		Opacity: 1.0,
		Count:   layers.DefaultGranuleCount,
	}
}

// SpecFromAttributes interprets a layer's attribute list. Unknown attribute
// ids are ignored for forward compatibility; unusable values degrade to a
// safe default plus a diagnostic.
func SpecFromAttributes(layerID string, attrs []Attribute) (Spec, []common.Diagnostic) {
	spec := DefaultSpec()
	var diags []common.Diagnostic

	for _, attr := range attrs {
		switch attr.ID {
		case "hidden":
			spec.Visible = false

		case "opacity":
			v, err := strconv.ParseFloat(attr.Value, 64)
			if err != nil {
				diags = append(diags, common.Diagf(common.DiagInvalidAttribute, layerID,
					"non-numeric opacity %q, using 0", attr.Value))
				v = 0
			}
			spec.Opacity = clamp(v, 0, 1)

		case "disabled":
			spec.Disabled = splitList(attr.Value)

		case "min":
			spec.Min = parseFloatSlots(layerID, "min", attr.Value, &diags)

		case "max":
			spec.Max = parseFloatSlots(layerID, "max", attr.Value, &diags)

		case "squash":
			if attr.Value == "true" {
				spec.Squash = []bool{true}
				break
			}
			for _, seg := range strings.Split(attr.Value, ";") {
				spec.Squash = append(spec.Squash, seg == "true")
			}

		case "bands":
			spec.Bands = splitList(attr.Value)

		case "bandCombo":
			combo, err := decodeBandCombo(attr.Value)
			if err != nil {
				diags = append(diags, common.Diagf(common.DiagInvalidAttribute, layerID,
					"undecodable band combo %q skipped", attr.Value))
				break
			}
			spec.BandCombo = combo

		case "palette", "style":
			spec.Custom = splitList(attr.Value)

		case "count":
			n, err := strconv.Atoi(attr.Value)
			if err != nil {
				diags = append(diags, common.Diagf(common.DiagInvalidAttribute, layerID,
					"non-numeric count %q, keeping default", attr.Value))
				break
			}
			spec.Count = n
		}
	}

	return spec, diags
}

// parseFloatSlots decodes a semicolon-split float list where an empty
// segment is an explicitly undefined slot and a non-numeric segment is
// skipped with a diagnostic
func parseFloatSlots(layerID, key, value string, diags *[]common.Diagnostic) []*float64 {
	segs := strings.Split(value, ";")
	out := make([]*float64, 0, len(segs))
	for _, seg := range segs {
		if seg == "" {
			out = append(out, nil)
			continue
		}
		v, err := strconv.ParseFloat(seg, 64)
		if err != nil {
			*diags = append(*diags, common.Diagf(common.DiagInvalidAttribute, layerID,
				"non-numeric %s segment %q skipped", key, seg))
			continue
		}
		out = append(out, &v)
	}
	return out
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ";")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
