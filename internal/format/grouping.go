package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupingPrinter = message.NewPrinter(language.English)

// GroupInt renders an integer with comma grouping ("1234567" -> "1,234,567"),
// matching the formatting the game client uses for stored XP amounts.
func GroupInt(value int64) string {
	return groupingPrinter.Sprintf("%d", value)
}
