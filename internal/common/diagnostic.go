package common

import "fmt"

// DiagnosticCode classifies a non-fatal problem encountered by the core.
// No diagnostic is ever fatal: every failure degrades to a narrower but
// valid result plus one of these.
type DiagnosticCode string

const (
	// DiagUnknownLayer marks a referenced layer id absent from the catalog
	DiagUnknownLayer DiagnosticCode = "unknown_layer"

	// DiagMalformedPermalink marks a permalink string that failed to parse
	DiagMalformedPermalink DiagnosticCode = "malformed_permalink"

	// DiagInvalidAttribute marks a non-numeric or otherwise unusable
	// attribute value that was replaced with a safe default
	DiagInvalidAttribute DiagnosticCode = "invalid_attribute"

	// DiagMissingRangeData marks a layer whose range or availability data
	// was absent or malformed during an adjustment pass
	DiagMissingRangeData DiagnosticCode = "missing_range_data"
)

// Diagnostic is a structured warning returned alongside a result instead of
// being written to a global log, so callers (and tests) can assert on it
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	LayerID string         `json:"layerId,omitempty"`
	Message string         `json:"message"`
}

// Diagf builds a diagnostic with a formatted message
func Diagf(code DiagnosticCode, layerID, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:    code,
		LayerID: layerID,
		Message: fmt.Sprintf(format, args...),
	}
}

func (d Diagnostic) String() string {
	if d.LayerID != "" {
		return fmt.Sprintf("[%s] %s: %s", d.Code, d.LayerID, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}
