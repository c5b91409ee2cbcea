package permalink

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Encode serializes an ordered list of active layers into the v1.2 wire
// grammar. Attributes are included only when they differ from the layer's
// defaults, keeping permalinks minimal: a fully-default layer serializes to
// its bare id.
func Encode(active []ActiveLayer) string {
	tokens := make([]string, 0, len(active))
	for _, layer := range active {
		tokens = append(tokens, encodeLayer(layer))
	}
	return strings.Join(tokens, ",")
}

func encodeLayer(layer ActiveLayer) string {
	var attrs []string

	if !layer.Spec.Visible {
		attrs = append(attrs, "hidden")
	}
	if layer.Spec.Opacity < 1 {
		attrs = append(attrs, "opacity="+formatOpacity(layer.Spec.Opacity))
	}
	if layer.Spec.BandCombo != "" {
		attrs = append(attrs, "bandCombo="+encodeBandCombo(layer.Spec.BandCombo))
	}
	if len(layer.Spec.Bands) > 0 {
		attrs = append(attrs, "bands="+strings.Join(layer.Spec.Bands, ";"))
	}

	// palette/style/count attributes travel only when the layer actually
	// carries an override, sourced from the current state rather than the
	// static catalog entry
	if len(layer.Spec.Custom) > 0 {
		key := "palette"
		if layer.Def != nil && len(layer.Def.VectorStyles) > 0 {
			key = "style"
		}
		attrs = append(attrs, key+"="+strings.Join(layer.Spec.Custom, ";"))
	}
	if len(layer.Spec.Min) > 0 {
		attrs = append(attrs, "min="+joinFloatSlots(layer.Spec.Min))
	}
	if len(layer.Spec.Max) > 0 {
		attrs = append(attrs, "max="+joinFloatSlots(layer.Spec.Max))
	}
	if len(layer.Spec.Squash) > 0 {
		attrs = append(attrs, "squash="+joinBools(layer.Spec.Squash))
	}
	if len(layer.Spec.Disabled) > 0 {
		attrs = append(attrs, "disabled="+strings.Join(layer.Spec.Disabled, ";"))
	}
	if layer.Def != nil && layer.Def.GranuleCount > 0 && layer.Spec.Count != DefaultSpec().Count {
		attrs = append(attrs, "count="+strconv.Itoa(layer.Spec.Count))
	}

	if len(attrs) == 0 {
		return layer.State.ID
	}
	return layer.State.ID + "(" + strings.Join(attrs, ",") + ")"
}

// formatOpacity rounds to two decimals and trims trailing zeros, matching
// the precision the wire format preserves
func formatOpacity(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// encodeBandCombo percent-encodes a band combination, then swaps the
// escaped parentheses for angle brackets so the value cannot terminate the
// layer token early
func encodeBandCombo(combo string) string {
	escaped := url.QueryEscape(combo)
	escaped = strings.ReplaceAll(escaped, "%28", "<")
	return strings.ReplaceAll(escaped, "%29", ">")
}

// decodeBandCombo reverses encodeBandCombo
func decodeBandCombo(encoded string) (string, error) {
	restored := strings.ReplaceAll(encoded, "<", "%28")
	restored = strings.ReplaceAll(restored, ">", "%29")
	return url.QueryUnescape(restored)
}

func joinFloatSlots(slots []*float64) string {
	segs := make([]string, len(slots))
	for i, v := range slots {
		if v != nil {
			segs[i] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}
	return strings.Join(segs, ";")
}

func joinBools(values []bool) string {
	segs := make([]string, len(values))
	for i, v := range values {
		segs[i] = strconv.FormatBool(v)
	}
	return strings.Join(segs, ";")
}
