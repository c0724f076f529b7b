package typeutils

import (
	"fmt"
	"strings"
	"time"
)

// layouts accepted for watermark and date-time values, tried in order
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 like string; values without zone are read as UTC
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse timestamp[%s]", value)
}

// FormatTimestamp renders a time the way bookmarks are saved, to the second
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatRecordTimestamp renders a date-time field of a record. Fractional seconds
// are kept.
func FormatRecordTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatAPIDate strips the zone information the API refuses on some filters
func FormatAPIDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}

// CreateDateInterval widens the start of a window by the lookback so that records updated
// right at the previous boundary are fetched again
func CreateDateInterval(start, end time.Time, lookback time.Duration) (string, string) {
	return FormatTimestamp(start.Add(-lookback)), FormatTimestamp(end)
}

// NormalizeTimestamp rewrites any parseable timestamp string into RFC3339 UTC,
// keeping its fractional seconds
func NormalizeTimestamp(value string) (string, error) {
	parsed, err := ParseTimestamp(value)
	if err != nil {
		return value, err
	}

	return FormatRecordTimestamp(parsed), nil
}
