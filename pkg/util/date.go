package util

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date layout used for records and series.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"20060102T150405",
	"20060102T1504",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseTime tries the provider timestamp layouts and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseFloat(s, 64); err == nil && ts > 0 {
		return time.Unix(int64(ts), 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// NormalizeDate returns s as YYYY-MM-DD, or the date of fallback when s cannot be parsed.
func NormalizeDate(s string, fallback time.Time) string {
	if t, ok := ParseTime(s); ok {
		return FormatDate(t)
	}
	return FormatDate(fallback)
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// IsDate reports whether s is a valid YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	_, ok := ParseDate(s)
	return ok && len(s) == len(DateLayout)
}

// AddDays returns the calendar date n days after d.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// TruncateDay drops the clock part of t in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
