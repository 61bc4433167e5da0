package subtitle

import (
	"strconv"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0.0, "00:00:00,0"},
		{"half second", 1.5, "00:00:01,500"},
		{"whole seconds", 3.0, "00:00:03,0"},
		{"minutes truncated millis", 125.4567, "00:02:05,456"},
		{"hours", 3725.25, "01:02:05,250"},
		{"sub-millisecond truncated", 0.0009, "00:00:00,0"},
		{"short millis unpadded", 2.0625, "00:00:02,62"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.seconds); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	segments := []Segment{
		{Start: 0.0, End: 1.5, Text: "Hi"},
		{Start: 1.5, End: 3.0, Text: "there"},
	}
	want := "1\n00:00:00,0 --> 00:00:01,500\nHi\n\n2\n00:00:01,500 --> 00:00:03,0\nthere\n\n"

	if got := Encode(segments); got != want {
		t.Errorf("Encode() =\n%q\nwant\n%q", got, want)
	}
}

func TestEncodeNumbering(t *testing.T) {
	segments := make([]Segment, 12)
	for i := range segments {
		segments[i] = Segment{Start: float64(i), End: float64(i) + 0.5, Text: "x"}
	}

	blocks := strings.Split(strings.TrimSuffix(Encode(segments), "\n\n"), "\n\n")
	if len(blocks) != len(segments) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(segments))
	}
	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) != 3 {
			t.Fatalf("block %d has %d lines: %q", i, len(lines), block)
		}
		if want := strconv.Itoa(i + 1); lines[0] != want {
			t.Errorf("block %d index = %q, want %q", i, lines[0], want)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("Encode(nil) = %q, want empty", got)
	}
}

func TestTrimLeadingSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading spaces", "   hello", "hello"},
		{"no leading space", "hello", "hello"},
		{"all spaces", "    ", ""},
		{"empty", "", ""},
		{"tab kept", "\thello", "\thello"},
		{"newline kept", "\n hello", "\n hello"},
		{"trailing kept", " hello  ", "hello  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimLeadingSpace(tt.in); got != tt.want {
				t.Errorf("TrimLeadingSpace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	in := []Segment{{Start: 0, End: 1, Text: " Hi"}, {Start: 1, End: 2, Text: "there"}}
	out := Normalize(in)

	if out[0].Text != "Hi" || out[1].Text != "there" {
		t.Errorf("Normalize() texts = %q, %q", out[0].Text, out[1].Text)
	}
	if in[0].Text != " Hi" {
		t.Errorf("Normalize() mutated its input")
	}
}
