package render

import (
	"strconv"
	"strings"
)

// Group renders v with exactly decimals fractional digits and inserts
// sep between runs of three integer digits, counting from the right.
// The first group may hold one to three digits; the separator never
// lands before the first digit, next to the decimal point, or inside
// the fraction. decimals=0 omits the point entirely.
func Group(v float64, sep rune, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
	}

	if len(intPart) <= 3 {
		if fracPart == "" {
			return sign + intPart
		}
		return sign + intPart + "." + fracPart
	}

	// First group takes len%3 digits, or a full three when the length
	// divides evenly; every later boundary falls three digits after.
	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3 + 2)
	b.WriteString(sign)
	k := len(intPart) % 3
	if k == 0 {
		k = 3
	}
	for i := 0; i < len(intPart); i++ {
		if i == k {
			b.WriteRune(sep)
			k += 3
		}
		b.WriteByte(intPart[i])
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
