package shared

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the second-precision format the store accepts for
// created_at fields and report boundaries.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the short form accepted for report boundaries.
const DateLayout = "2006-01-02"

// ParseTimestamp parses a timestamp in either accepted layout. A date-only
// value maps to midnight.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp required: %w", ErrInvalidInput)
	}
	if t, err := time.ParseInLocation(TimestampLayout, value, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateLayout, value, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("timestamp %q not in %q or %q: %w", value, TimestampLayout, DateLayout, ErrInvalidInput)
}

// ParseRangeEnd parses an inclusive range end. Date-only values extend to the
// last second of that day so the whole day is covered.
func ParseRangeEnd(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DateLayout, value, time.UTC); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	return ParseTimestamp(value)
}

// FormatTimestamp renders t in the store's timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
