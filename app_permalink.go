package main

import (
	"strings"

	"layer-timeline/internal/common"
	"layer-timeline/internal/permalink"
)

// ====================
// Permalink Encode/Decode
// ====================

// DecodeLayerString parses an encoded layer list into active layers in
// display order. Both wire grammars are accepted: legacy v1.1 strings
// (tilde/period delimited, "!" hidden prefix) and current v1.2 strings
// (parenthesized attribute lists). Decoding never fails: malformed input
// degrades to the catalog's default layer set.
func (a *App) DecodeLayerString(encoded string) []permalink.ActiveLayer {
	catalog := a.currentCatalog()

	var result permalink.ParseResult
	if isLegacyLayerString(encoded) {
		result = permalink.ParseV1(encoded, catalog)
	} else {
		result = permalink.ParseV2(encoded, catalog)
	}

	active, diags := permalink.BuildActiveLayers(result, catalog)
	a.logDiagnostics(diags)

	for _, d := range diags {
		// parse failures are tracked; dropped unknown ids are not
		if d.Code == common.DiagMalformedPermalink {
			a.TrackEvent("permalink_parse_failed", map[string]interface{}{
				"reason": d.Message,
			})
		}
	}

	return active
}

// EncodeLayerString serializes active layers into the v1.2 wire grammar
// for sharing. Encoding the result of DecodeLayerString restores the same
// layers with the same attributes.
func (a *App) EncodeLayerString(active []permalink.ActiveLayer) string {
	return permalink.Encode(active)
}

// isLegacyLayerString detects the v1.1 grammar: "~" and "." delimiters,
// inline group labels, and the "!" hidden prefix on an id. A parenthesized
// attribute list settles it the other way, since v1.2 values may themselves
// contain "." (opacity=0.54) and v1.2 spells hidden as an attribute, never
// as a prefix.
func isLegacyLayerString(encoded string) bool {
	if strings.Contains(encoded, "(") {
		return false
	}
	if strings.ContainsAny(encoded, "~.") ||
		strings.Contains(encoded, "baselayers") ||
		strings.Contains(encoded, "overlays") {
		return true
	}
	for _, token := range strings.Split(encoded, ",") {
		if strings.HasPrefix(token, "!") {
			return true
		}
	}
	return false
}
