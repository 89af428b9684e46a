// Package extract pulls single fields out of semi-structured response
// text with a tolerant marker scan. It deliberately avoids a full JSON
// parser: the upstream payload is large, its shape drifts, and the two
// fields we need are cheap to locate by their literal key text.
package extract

import (
	"strconv"
	"strings"
)

// Field locates the first occurrence of marker in raw and parses the
// text that follows, up to the next comma or end of buffer, as a
// decimal number. Surrounding whitespace, one leading colon and one
// quote pair are stripped first. A missing marker or unparsable slice
// yields 0.0; callers that care must treat a zero defensively.
func Field(raw, marker string) float64 {
	v, err := strconv.ParseFloat(Text(raw, marker), 64)
	if err != nil {
		return 0
	}
	return v
}

// Text runs the same scan as Field but returns the cleaned token
// without numeric parsing. Returns "" when the marker is absent.
func Text(raw, marker string) string {
	if marker == "" {
		return ""
	}
	i := strings.Index(raw, marker)
	if i < 0 {
		return ""
	}
	rest := raw[i+len(marker):]
	if j := strings.IndexByte(rest, ','); j >= 0 {
		rest = rest[:j]
	}
	return clean(rest)
}

// clean trims whitespace, then one leading colon, then one surrounding
// quote pair. Order matters: the marker may or may not include the key
// delimiter, and string values carry their own quotes.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, ":") {
		s = strings.TrimSpace(s[1:])
	}
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}
