package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveRange(t *testing.T) {
	// 2025-06-11 is a Wednesday.
	anchor := time.Date(2025, 6, 11, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timeRange TimeRange
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "daily covers the anchor day",
			timeRange: RangeDaily,
			wantStart: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "weekly runs sunday to saturday",
			timeRange: RangeWeekly,
			wantStart: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "monthly covers the calendar month",
			timeRange: RangeMonthly,
			wantStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "yearly covers the calendar year",
			timeRange: RangeYearly,
			wantStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "unknown falls back to daily",
			timeRange: "quarterly",
			wantStart: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ResolveRange(tt.timeRange, anchor)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestResolveRangeWeeklyOnSunday(t *testing.T) {
	// Anchoring on a Sunday starts the week that same day.
	sunday := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)
	start, end := ResolveRange(RangeWeekly, sunday)
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)
}

func TestRangeDisplay(t *testing.T) {
	start, end := ResolveRange(RangeWeekly, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Jun 8, 2025 - Jun 14, 2025", RangeDisplay(RangeWeekly, start, end))

	start, end = ResolveRange(RangeMonthly, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "June 2025", RangeDisplay(RangeMonthly, start, end))

	start, end = ResolveRange(RangeDaily, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Jun 11, 2025", RangeDisplay(RangeDaily, start, end))
}
