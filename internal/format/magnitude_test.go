package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{name: "plain integer", input: "42", expected: 42},
		{name: "comma grouped", input: "1,234,567", expected: 1234567},
		{name: "upper K suffix", input: "1.5K", expected: 1500},
		{name: "lower k suffix", input: "8.3k", expected: 8300},
		{name: "M suffix", input: "75M", expected: 75000000},
		{name: "B suffix", input: "2B", expected: 2000000000},
		{name: "lower b suffix", input: "1.2b", expected: 1200000000},
		{name: "grouped with suffix", input: "1,250k", expected: 1250000},
		{name: "surrounding whitespace", input: "  950  ", expected: 950},
		{name: "fractional no suffix truncates", input: "12.9", expected: 12},
		{name: "zero", input: "0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMagnitude(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseMagnitude_Invalid(t *testing.T) {
	for _, input := range []string{"", "not-a-number", "K", "1.2.3", "12x", "--5"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseMagnitude(input)
			require.Error(t, err)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseGroupedInt(t *testing.T) {
	got, err := ParseGroupedInt("1,999")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), got)

	_, err = ParseGroupedInt("1.5k")
	require.Error(t, err)
}

func TestGroupInt(t *testing.T) {
	assert.Equal(t, "1,234,567", GroupInt(1234567))
	assert.Equal(t, "0", GroupInt(0))
}
