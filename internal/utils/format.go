package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var krPrinter = message.NewPrinter(language.Korean)

// FormatNumber groups digits the Korean way, e.g. 30000 -> "30,000".
func FormatNumber(n int64) string {
	return krPrinter.Sprintf("%d", n)
}

// FormatWon renders an amount as "30,000원".
func FormatWon(amount int64) string {
	return FormatNumber(amount) + "원"
}

// FormatDuration renders minutes as "H시간 M분", or "M분" under an hour.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%d시간 %d분", hours, mins)
	}
	return fmt.Sprintf("%d분", mins)
}
