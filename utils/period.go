// utils/period.go
package utils

import (
	"fmt"
	"time"
)

// ParsePeriod parses a YYYY-MM period string into the closed-open UTC
// bounds of that calendar month: [start, end).
func ParsePeriod(period string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q, expected YYYY-MM", period)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start, end, nil
}

// PeriodOf returns the YYYY-MM period a timestamp falls in (UTC).
func PeriodOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// DaysBetween returns the whole days elapsed from start to end, never
// negative.
func DaysBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}
