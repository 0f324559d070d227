package styles

import (
	"bytes"
	"encoding/xml"
	"strings"
	"unicode/utf8"
)

// Label settings.
const (
	// LabelBudget is the default number of runes a node label may occupy.
	LabelBudget = 18

	// EllipsisMarker is appended to truncated labels.
	EllipsisMarker = "…"

	labelFontSize     = 12.0
	edgeLabelFontSize = 10.0
	badgeFontSize     = 9.0
)

// TruncateLabel shortens s to at most budget runes, replacing the tail with
// EllipsisMarker. The marker is always kept whole: a budget too small to hold
// any text returns the marker alone. Trailing whitespace before the marker is
// trimmed.
func TruncateLabel(s string, budget int) string {
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	markerLen := utf8.RuneCountInString(EllipsisMarker)
	keep := budget - markerLen
	if keep <= 0 {
		return EllipsisMarker
	}
	runes := []rune(s)
	head := strings.TrimRight(string(runes[:keep]), " \t")
	return head + EllipsisMarker
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
