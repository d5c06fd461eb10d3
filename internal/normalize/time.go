// Package normalize turns the free-form strings scraped from rendered pages
// into typed values: relative timestamps, engagement counts, hashtags.
// Everything here is pure; parse failures resolve to sentinel values rather
// than errors so a bad string never aborts an extraction run.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnknownSentinel is the value written for date-derived fields when the raw
// date text could not be parsed.
const UnknownSentinel = "Unknown"

// DateSentinel is the raw date text recorded when no date could be located
// inside a post container.
const DateSentinel = "Unknown date"

// Month and year deltas are approximations, not calendar-exact.
const (
	approxMonth = 30 * 24 * time.Hour
	approxYear  = 365 * 24 * time.Hour
)

var (
	agoPattern     = regexp.MustCompile(`(\d+)\s*(minute|hour|day|week|month|year)s?\s*ago`)
	compactPattern = regexp.MustCompile(`(\d+)\s*(mo|yr|s|m|h|d|w)`)
)

// ParseTimestamp parses raw relative or absolute date text against the given
// reference instant. The second return value is false when the text is
// unparseable; callers keep the record and fill date fields with sentinels.
func ParseTimestamp(raw string, now time.Time) (time.Time, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" || text == strings.ToLower(DateSentinel) {
		return time.Time{}, false
	}

	if strings.Contains(text, "just now") || text == "now" {
		return now, true
	}

	if m := agoPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return now.Add(-relativeDelta(n, m[2])), true
		}
	}

	// Compact feed forms like "2d", "5h", "3w", "1mo", "2yr".
	if m := compactPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return now.Add(-compactDelta(n, m[2])), true
		}
	}

	for _, layout := range []string{"Jan 2, 2006", "January 2, 2006"} {
		if ts, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

func relativeDelta(n int, unit string) time.Duration {
	switch unit {
	case "minute":
		return time.Duration(n) * time.Minute
	case "hour":
		return time.Duration(n) * time.Hour
	case "day":
		return time.Duration(n) * 24 * time.Hour
	case "week":
		return time.Duration(n) * 7 * 24 * time.Hour
	case "month":
		return time.Duration(n) * approxMonth
	case "year":
		return time.Duration(n) * approxYear
	}
	return 0
}

func compactDelta(n int, unit string) time.Duration {
	switch unit {
	case "s":
		return time.Duration(n) * time.Second
	case "m":
		return time.Duration(n) * time.Minute
	case "h":
		return time.Duration(n) * time.Hour
	case "d":
		return time.Duration(n) * 24 * time.Hour
	case "w":
		return time.Duration(n) * 7 * 24 * time.Hour
	case "mo":
		return time.Duration(n) * approxMonth
	case "yr":
		return time.Duration(n) * approxYear
	}
	return 0
}
