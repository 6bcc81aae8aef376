package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	start, end, err := ParsePeriod("2026-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestParsePeriodDecemberRollsOver(t *testing.T) {
	start, end, err := ParsePeriod("2025-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestParsePeriodRejectsBadInput(t *testing.T) {
	for _, period := range []string{"", "2026", "2026-13", "03-2026", "2026-03-01"} {
		_, _, err := ParsePeriod(period)
		assert.Error(t, err, "period %q", period)
	}
}

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, "2026-07", PeriodOf(time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, 30, DaysBetween(start, start.AddDate(0, 0, 30)))
	assert.Equal(t, 0, DaysBetween(start, start.AddDate(0, 0, -5)), "never negative")
}
