package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeAlphaVantageLayout(t *testing.T) {
	got, ok := ParseTime("20240301T141500")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != "2024-03-01" {
		t.Fatalf("unexpected date %s", FormatDate(got))
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestNormalizeDate(t *testing.T) {
	fb := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	if got := NormalizeDate("2024-05-06T07:08:09Z", fb); got != "2024-05-06" {
		t.Fatalf("unexpected %s", got)
	}
	if got := NormalizeDate("2 hours ago", fb); got != "2025-01-02" {
		t.Fatalf("expected fallback date, got %s", got)
	}
}

func TestIsDate(t *testing.T) {
	if !IsDate("2024-02-29") {
		t.Fatalf("leap day should be valid")
	}
	if IsDate("2023-02-29") || IsDate("2024-1-2") || IsDate("") {
		t.Fatalf("invalid dates accepted")
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := Truncate("Ørsted wins", 3); got != "Ørs" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}
