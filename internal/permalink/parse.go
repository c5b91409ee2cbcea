package permalink

import (
	"fmt"
	"regexp"
	"strings"

	"layer-timeline/internal/common"
	"layer-timeline/internal/layers"
)

// Two wire formats are accepted. v1.1 is the legacy grammar: layer ids
// delimited by tilde, comma, or period, with a leading "!" marking a layer
// hidden. v1.2 is the current grammar: comma-separated tokens of the form
// id(k1=v1,k2=v2,...), where a boolean key may omit its value.

// v1 ids are separated by any of "~", "," or "."
var v1Delimiter = regexp.MustCompile(`[~,.]`)

// group labels that may appear between ids in v1 strings
const (
	v1TokenBaseLayers = "baselayers"
	v1TokenOverlays   = "overlays"
)

// ParseResult carries the parsed layer list and any non-fatal diagnostics
type ParseResult struct {
	Layers      []LayerState        `json:"layers"`
	Diagnostics []common.Diagnostic `json:"diagnostics,omitempty"`
}

// ParseV1 decodes a legacy (v1.1) layer string. Unknown ids are dropped
// with a diagnostic; no telemetry is emitted for drops.
func ParseV1(encoded string, catalog *layers.Catalog) ParseResult {
	var result ParseResult

	for _, token := range v1Delimiter.Split(encoded, -1) {
		if token == "" || token == v1TokenBaseLayers || token == v1TokenOverlays {
			continue
		}

		hidden := strings.HasPrefix(token, "!")
		id := catalog.Redirect(strings.TrimPrefix(token, "!"))

		if _, ok := catalog.Lookup(id); !ok {
			result.Diagnostics = append(result.Diagnostics,
				common.Diagf(common.DiagUnknownLayer, id, "layer not in catalog, dropped"))
			continue
		}

		state := LayerState{ID: id}
		if hidden {
			state.Attributes = []Attribute{{ID: "hidden", Value: "true"}}
		}
		result.Layers = append(result.Layers, state)
	}

	return result
}

// ParseV2 decodes a current (v1.2) layer string. A malformed string never
// propagates an error: the catalog's default layer set is returned instead,
// with a diagnostic describing the failure.
func ParseV2(encoded string, catalog *layers.Catalog) ParseResult {
	states, err := parseV2Tokens(encoded, catalog)
	if err != nil {
		result := defaultLayerStates(catalog)
		result.Diagnostics = append(result.Diagnostics,
			common.Diagf(common.DiagMalformedPermalink, "", "falling back to default layers: %v", err))
		return result
	}
	return states
}

func parseV2Tokens(encoded string, catalog *layers.Catalog) (ParseResult, error) {
	var result ParseResult

	tokens, err := splitOutsideParens(encoded)
	if err != nil {
		return ParseResult{}, err
	}

	for _, token := range tokens {
		if token == "" {
			continue
		}

		id := token
		var attrs []Attribute

		if open := strings.Index(token, "("); open >= 0 {
			if !strings.HasSuffix(token, ")") {
				return ParseResult{}, fmt.Errorf("layer token %q has an unterminated attribute list", token)
			}
			id = token[:open]
			for _, entry := range strings.Split(token[open+1:len(token)-1], ",") {
				if entry == "" {
					continue
				}
				key, value, found := strings.Cut(entry, "=")
				if !found {
					value = "true" // bare key is a boolean flag
				}
				attrs = append(attrs, Attribute{ID: key, Value: value})
			}
		}

		id = catalog.Redirect(id)
		if _, ok := catalog.Lookup(id); !ok {
			result.Diagnostics = append(result.Diagnostics,
				common.Diagf(common.DiagUnknownLayer, id, "layer not in catalog, dropped"))
			continue
		}

		result.Layers = append(result.Layers, LayerState{ID: id, Attributes: attrs})
	}

	return result, nil
}

// splitOutsideParens splits on commas at parenthesis depth zero.
// Unbalanced parentheses are a parse error.
func splitOutsideParens(s string) ([]string, error) {
	var tokens []string
	depth := 0
	start := 0

	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q at position %d", ')', i)
			}
		case ',':
			if depth == 0 {
				tokens = append(tokens, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	return append(tokens, s[start:]), nil
}

// defaultLayerStates builds the catalog's default layer set
func defaultLayerStates(catalog *layers.Catalog) ParseResult {
	var result ParseResult
	for _, id := range catalog.Defaults {
		id = catalog.Redirect(id)
		if _, ok := catalog.Lookup(id); !ok {
			result.Diagnostics = append(result.Diagnostics,
				common.Diagf(common.DiagUnknownLayer, id, "default layer not in catalog, dropped"))
			continue
		}
		result.Layers = append(result.Layers, LayerState{ID: id})
	}
	return result
}

// ActiveLayer couples a parsed layer state with its catalog definition and
// interpreted attributes, in final display order
type ActiveLayer struct {
	Def   *layers.LayerDefinition `json:"def"`
	State LayerState              `json:"state"`
	Spec  Spec                    `json:"spec"`
}

// BuildActiveLayers resolves parsed layer states against the catalog and
// orders them for display: overlays keep their wire order ahead of base
// layers, which stack underneath (the catalog's group placement rule).
// States referencing unknown ids are dropped with a diagnostic.
func BuildActiveLayers(result ParseResult, catalog *layers.Catalog) ([]ActiveLayer, []common.Diagnostic) {
	diags := append([]common.Diagnostic(nil), result.Diagnostics...)

	var overlays, base []ActiveLayer
	for _, state := range result.Layers {
		def, ok := catalog.Lookup(state.ID)
		if !ok {
			diags = append(diags, common.Diagf(common.DiagUnknownLayer, state.ID,
				"layer not in catalog, dropped"))
			continue
		}

		spec, specDiags := SpecFromAttributes(state.ID, state.Attributes)
		diags = append(diags, specDiags...)

		active := ActiveLayer{Def: def, State: state, Spec: spec}
		if def.Group == v1TokenBaseLayers {
			base = append(base, active)
		} else {
			overlays = append(overlays, active)
		}
	}

	return append(overlays, base...), diags
}
