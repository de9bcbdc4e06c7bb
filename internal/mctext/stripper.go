package mctext

import (
	"strings"
)

// ColorChar is the in-band marker the game client uses to introduce a
// two-character color/style code (the section sign, followed by one code rune).
const ColorChar = '§'

// Strip removes every color/style code from text: each occurrence of the
// marker rune and the single rune that follows it. Idempotent, and a no-op
// on text that carries no marker.
func Strip(text string) string {
	if !strings.ContainsRune(text, ColorChar) {
		return text
	}

	var result strings.Builder
	result.Grow(len(text))

	skipNext := false
	for _, char := range text {
		if skipNext {
			skipNext = false
			continue
		}
		if char == ColorChar {
			skipNext = true
			continue
		}
		result.WriteRune(char)
	}

	return result.String()
}
