// Package utils provides formatting helpers for CLI output, including
// compact view counts and title truncation.
package utils

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Millify converts a number to a human-readable string with SI suffixes.
// For example: 1000 -> "1K", 1500000 -> "1.5M".
func Millify(n int, precision int) string {
	if precision < 0 {
		precision = 2
	}

	abs := math.Abs(float64(n))
	sign := ""
	if n < 0 {
		sign = "-"
	}

	suffixes := []struct {
		threshold float64
		suffix    string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}

	for _, s := range suffixes {
		if abs >= s.threshold {
			return sign + formatFloat(abs/s.threshold, precision) + s.suffix
		}
	}

	return fmt.Sprintf("%d", n)
}

func formatFloat(f float64, precision int) string {
	s := fmt.Sprintf("%.*f", precision, f)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// Truncate shortens s to at most max runes, ending with "…" when cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
