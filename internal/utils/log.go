package utils

import (
	"fmt"
	"strings"
)

// TruncateForLog flattens s onto one line and keeps at most limit runes of it.
// Truncated previews end with a marker saying how many runes were dropped.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	flat := []rune(strings.Join(strings.Fields(s), " "))
	if len(flat) <= limit {
		return string(flat)
	}

	return fmt.Sprintf("%s... (+%d)", string(flat[:limit]), len(flat)-limit)
}
