package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUsesFixedOffset(t *testing.T) {
	utc := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	got := Format(utc)
	assert.Equal(t, "2025-06-01T17:00:00+05:00", got)
}

func TestFormatIndependentOfInputZone(t *testing.T) {
	nyc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instant := time.Date(2025, 6, 1, 8, 0, 0, 0, nyc) // 12:00 UTC
	assert.Equal(t, "2025-06-01T17:00:00+05:00", Format(instant))
}

func TestParseRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	parsed, err := Parse(Format(now))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(now))
}
