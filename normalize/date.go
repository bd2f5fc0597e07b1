package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unknown is the placeholder upstream adapters and responses use for an
// unavailable date or weekday.
const Unknown = "Unknown"

var relativeTimePattern = regexp.MustCompile(`(?i)(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago`)

// Months and years are approximations.
var unitSeconds = map[string]int64{
	"second": 1,
	"minute": 60,
	"hour":   3600,
	"day":    86400,
	"week":   7 * 86400,
	"month":  30 * 86400,
	"year":   365 * 86400,
}

const (
	// Offsets past this are treated as unparseable.
	maxRelativeSeconds = 10000 * 365 * 86400
	maxDurationSeconds = math.MaxInt64 / int64(time.Second)
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2 2006",
}

// Prefixes YouTube puts in front of the date on watch pages.
var datePrefixes = []string{
	"Premiered ",
	"Streamed live on ",
	"Started streaming on ",
	"Published on ",
	"Scheduled for ",
}

// ParseDate parses an absolute or relative ("3 days ago") date relative to
// the current time. See ParseDateAt.
func ParseDate(text string) time.Time {
	return ParseDateAt(text, time.Now())
}

// ParseDateAt parses text into an instant. Relative dates are resolved
// against now. Empty, sentinel ("Unknown", "N/A") and unparseable input
// yields the zero time, which sorts before every real date.
func ParseDateAt(text string, now time.Time) time.Time {
	text = strings.TrimSpace(text)
	if isSentinel(text) {
		return time.Time{}
	}

	if m := relativeTimePattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return time.Time{}
		}
		return relativeTo(now, n, unitSeconds[strings.ToLower(m[2])])
	}

	for _, prefix := range datePrefixes {
		text = strings.TrimPrefix(text, prefix)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}

	return time.Time{}
}

// relativeTo subtracts n units from now. Offsets too large for a
// time.Duration are subtracted as whole days plus a remainder.
func relativeTo(now time.Time, n, unit int64) time.Time {
	if n > maxRelativeSeconds/unit {
		return time.Time{}
	}
	offset := n * unit
	if offset <= maxDurationSeconds {
		return now.Add(-time.Duration(offset) * time.Second)
	}
	days := offset / 86400
	rest := time.Duration(offset%86400) * time.Second
	return now.AddDate(0, 0, -int(days)).Add(-rest)
}

// DayOfWeek names the weekday of t, or Unknown for the zero time.
func DayOfWeek(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	return t.Weekday().String()
}

func isSentinel(text string) bool {
	switch strings.ToLower(text) {
	case "", "unknown", "n/a":
		return true
	}
	return false
}
