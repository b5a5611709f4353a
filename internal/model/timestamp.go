package model

import (
	"strings"
	"time"
)

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseTimestamp parses a stored date or timestamp. Values without a zone
// are interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "Z") || hasOffset(s) {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way timestamps are stored.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// hasOffset reports whether s ends in a "+hh:mm" or "-hh:mm" zone offset.
func hasOffset(s string) bool {
	if len(s) < 6 || !strings.Contains(s, "T") {
		return false
	}
	tail := s[len(s)-6:]
	return (tail[0] == '+' || tail[0] == '-') && tail[3] == ':'
}
