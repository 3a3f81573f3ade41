package utils

import "fmt"

// FormatTimestamp renders a second offset as MM:SS for citeable positions.
// Offsets of an hour or more keep counting minutes (90:00, not 1:30:00).
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
