package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2026-03-10 14:30:05")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 10, 14, 30, 5, 0, time.UTC), ts)

	ts, err = ParseTimestamp("2026-03-10")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), ts)

	_, err = ParseTimestamp("")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseTimestamp("10/03/2026")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseRangeEndExtendsDateToEndOfDay(t *testing.T) {
	ts, err := ParseRangeEnd("2026-03-10")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC), ts)

	// A full timestamp is taken as-is.
	ts, err = ParseRangeEnd("2026-03-10 12:00:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), ts)
}

func TestRangeComparisonIsParsedNotLexicographic(t *testing.T) {
	// "2026-03-9" style inputs are rejected rather than string-compared.
	_, err := ParseTimestamp("2026-3-9 01:00:00")
	require.ErrorIs(t, err, ErrInvalidInput)

	from, err := ParseTimestamp("2026-03-09 23:00:00")
	require.NoError(t, err)
	to, err := ParseRangeEnd("2026-03-10")
	require.NoError(t, err)
	require.True(t, from.Before(to))
}
