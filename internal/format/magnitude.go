package format

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError indicates that a string could not be interpreted as a number.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("not a numeric value: %q", e.Input)
}

// magnitude multipliers for single-letter suffixes, matched case-insensitively
var suffixMultipliers = map[byte]float64{
	'k': 1_000,
	'm': 1_000_000,
	'b': 1_000_000_000,
}

// ParseMagnitude converts a human-formatted numeric string into an integer.
// Comma grouping is stripped, and a trailing K/M/B suffix multiplies the
// decimal prefix (so "1.5K" is 1500 and "75M" is 75000000). The float
// product is truncated toward zero; the rounding error on very large
// fractional inputs matches what the game client itself displays.
func ParseMagnitude(text string) (int64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if s == "" {
		return 0, &ParseError{Input: text}
	}

	multiplier := float64(1)
	last := s[len(s)-1]
	if m, ok := suffixMultipliers[lower(last)]; ok {
		multiplier = m
		s = strings.TrimSpace(s[:len(s)-1])
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Input: text}
	}

	return int64(value * multiplier), nil
}

// ParseGroupedInt converts a comma-grouped integer string ("1,999") into an
// integer. Unlike ParseMagnitude it accepts no suffix and no fraction.
func ParseGroupedInt(text string) (int64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Input: text}
	}
	return value, nil
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
