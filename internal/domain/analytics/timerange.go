package analytics

import (
	"fmt"
	"time"
)

// TimeRange names the supported reporting windows.
type TimeRange string

const (
	RangeDaily   TimeRange = "daily"
	RangeWeekly  TimeRange = "weekly"
	RangeMonthly TimeRange = "monthly"
	RangeYearly  TimeRange = "yearly"
)

// ResolveRange maps a named window onto concrete bounds around the anchor
// date. Weekly weeks run Sunday through Saturday. Anything unrecognized
// falls back to daily.
func ResolveRange(timeRange TimeRange, date time.Time) (time.Time, time.Time) {
	date = date.UTC()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	switch timeRange {
	case RangeWeekly:
		start := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
		end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
		return start, end
	case RangeMonthly:
		start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return start, end
	case RangeYearly:
		start := time.Date(date.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
		return start, end
	default:
		return dayStart, dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
}

// RangeDisplay renders the period label used in report headers.
func RangeDisplay(timeRange TimeRange, start, end time.Time) string {
	switch timeRange {
	case RangeWeekly:
		return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	case RangeMonthly:
		return start.Format("January 2006")
	case RangeYearly:
		return start.Format("2006")
	default:
		return start.Format("Jan 2, 2006")
	}
}
