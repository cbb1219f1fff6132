package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHubSpotTimestampRFC3339(t *testing.T) {
	ts, err := ParseHubSpotTimestamp("2026-08-31T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, 14, ts.UTC().Hour())
}

func TestParseHubSpotTimestampMillis(t *testing.T) {
	ts, err := ParseHubSpotTimestamp("1767182400000") // 2025-12-31T12:00:00Z
	require.NoError(t, err)
	assert.Equal(t, int64(1767182400000), ts.UnixMilli())
}

func TestParseHubSpotTimestampGarbage(t *testing.T) {
	_, err := ParseHubSpotTimestamp("yesterday")
	assert.Error(t, err)
}

func TestBrazilDayCrossesMidnight(t *testing.T) {
	// 02:00 UTC is still the previous day in GMT-3
	ts := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-12-31", BrazilDay(ts))

	ts = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-01", BrazilDay(ts))
}

func TestTodayBrazilStartUTC(t *testing.T) {
	start := TodayBrazilStartUTC()
	assert.Equal(t, time.UTC, start.Location())

	inBrazil := start.In(BrazilTZ)
	assert.Equal(t, 0, inBrazil.Hour())
	assert.Equal(t, 0, inBrazil.Minute())

	now := time.Now()
	assert.False(t, now.Before(start))
	assert.True(t, now.Before(start.Add(24*time.Hour)))
}

func TestMonthStartBrazilUTC(t *testing.T) {
	start := MonthStartBrazilUTC().In(BrazilTZ)
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 0, start.Hour())
}
