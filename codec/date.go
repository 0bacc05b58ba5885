package codec

import (
	"errors"
	"strings"
	"time"
)

// ErrUnsupportedDate is returned by ParseDate when no layout matches.
var ErrUnsupportedDate = errors.New("codec: unsupported date format")

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate parses the textual date forms accepted by Date conversion.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnsupportedDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnsupportedDate
}

// FormatISO renders t in UTC with millisecond precision
// (for example: 2025-01-02T03:04:05.000Z).
func FormatISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// FormatRFC3339 normalizes to UTC and formats using RFC3339Nano (Go trims
// trailing zeros).
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
