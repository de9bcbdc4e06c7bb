package mctext

import (
	"testing"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no color codes",
			input:    "Hello World",
			expected: "Hello World",
		},
		{
			name:     "single color code",
			input:    "§aRNG Meter",
			expected: "RNG Meter",
		},
		{
			name:     "multiple codes",
			input:    "§e§lRNG Meter §r- §d1,234 §7Stored XP",
			expected: "RNG Meter - 1,234 Stored XP",
		},
		{
			name:     "marker at end of string",
			input:    "trailing§",
			expected: "trailing",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Strip(tt.input)
			if result != tt.expected {
				t.Errorf("Strip() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestStrip_Idempotent(t *testing.T) {
	input := "§6Voidgloom Seraph RNG Meter"
	once := Strip(input)
	twice := Strip(once)
	if once != twice {
		t.Errorf("Strip not idempotent: %q vs %q", once, twice)
	}
}
