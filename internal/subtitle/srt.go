// Package subtitle encodes timed transcript segments as SubRip (SRT) text.
package subtitle

import (
	"fmt"
	"math"
	"strings"
)

// Segment is one timed piece of transcript text. Start and End are in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Encode renders segments as SRT blocks numbered from 1 in input order.
// Each block is the index line, the time range line, the text and a blank line.
func Encode(segments []Segment) string {
	var b strings.Builder
	for i, s := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, FormatTimestamp(s.Start), FormatTimestamp(s.End), s.Text)
	}
	return b.String()
}

// FormatTimestamp renders seconds as HH:MM:SS,m. Hours, minutes and seconds are
// zero padded to two digits; the millisecond field is truncated, not rounded,
// and written without padding (2.0625 gives "00:00:02,62").
func FormatTimestamp(total float64) string {
	hours := math.Floor(total / 3600)
	remainder := math.Mod(total, 3600)
	minutes := math.Floor(remainder / 60)
	seconds := math.Mod(remainder, 60)
	millis := (seconds - math.Trunc(seconds)) * 1000

	// No carry into seconds when float error pushes millis to 1000.
	return fmt.Sprintf("%02d:%02d:%02d,%d", int(hours), int(minutes), int(seconds), int(millis))
}

// TrimLeadingSpace strips leading ASCII spaces only. Tabs, newlines and
// trailing whitespace are kept. An all-space string becomes empty.
func TrimLeadingSpace(s string) string {
	return strings.TrimLeft(s, " ")
}

// Normalize returns a copy of segments with leading spaces stripped from each text.
func Normalize(segments []Segment) []Segment {
	out := make([]Segment, len(segments))
	for i, s := range segments {
		out[i] = Segment{Start: s.Start, End: s.End, Text: TrimLeadingSpace(s.Text)}
	}
	return out
}
