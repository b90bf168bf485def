package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysovo-official/clockify-backend/internal/domain/analytics"
)

func TestStatsWindow(t *testing.T) {
	now := time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC) // a Wednesday

	t.Run("explicit range wins over named range", func(t *testing.T) {
		start, end, label, err := statsWindow(analytics.RangeMonthly, "", "2025-06-01", "2025-06-07", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
		// End date is inclusive, so the window runs to the last instant of the day.
		assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)
		assert.Equal(t, "Jun 1, 2025 - Jun 7, 2025", label)
	})

	t.Run("named range with anchor date", func(t *testing.T) {
		start, end, _, err := statsWindow(analytics.RangeDaily, "2025-06-02", "", "", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)
	})

	t.Run("named range falls back to now", func(t *testing.T) {
		start, end, _, err := statsWindow(analytics.RangeMonthly, "", "", "", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)
	})

	t.Run("malformed explicit dates rejected", func(t *testing.T) {
		_, _, _, err := statsWindow(analytics.RangeMonthly, "", "06/01/2025", "2025-06-07", now)
		assert.Error(t, err)

		_, _, _, err = statsWindow(analytics.RangeMonthly, "", "2025-06-01", "nope", now)
		assert.Error(t, err)
	})
}
