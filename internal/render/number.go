package render

import (
	"strconv"
	"strings"
)

// CompactNumber shortens large counts for display: 950, 1.2k, 3.4M.
func CompactNumber(n int) string {
	sign := ""
	v := int64(n)
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1_000_000_000:
		return sign + shorten(v, 1_000_000_000) + "B"
	case v >= 1_000_000:
		return sign + shorten(v, 1_000_000) + "M"
	case v >= 1_000:
		return sign + shorten(v, 1_000) + "k"
	default:
		return sign + strconv.FormatInt(v, 10)
	}
}

// shorten keeps one decimal, truncated so 1999 stays 1.9k rather than 2.0k.
func shorten(v, unit int64) string {
	tenths := v * 10 / unit
	s := strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10)
	return strings.TrimSuffix(s, ".0")
}
