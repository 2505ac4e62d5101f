package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampFormat is the fixed-width UTC form timestamps are stored in.
// Fixed width keeps lexicographic ordering identical to chronological
// ordering, so range filters can compare the stored strings directly.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z"

// FormatTimestamp renders t for storage, normalized to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTimestamp parses a stored timestamp back to a UTC instant.
func ParseTimestamp(str string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", str, err)
	}
	return t.UTC(), nil
}

// ParseDecimal parses a stored decimal column.
func ParseDecimal(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal %q: %w", str, err)
	}
	return d, nil
}
