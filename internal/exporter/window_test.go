package exporter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwsexport/gwsexport/internal/exporter"
)

func TestDayWindows(t *testing.T) {
	t.Parallel()

	date := func(day, hour int) time.Time {
		return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
	}

	tests := map[string]struct {
		start time.Time
		end   time.Time

		want []exporter.Window
	}{
		"Three full days": {
			start: date(1, 0), end: date(4, 0),
			want: []exporter.Window{
				{Start: date(1, 0), End: date(2, 0)},
				{Start: date(2, 0), End: date(3, 0)},
				{Start: date(3, 0), End: date(4, 0)},
			},
		},
		"Partial first and last days": {
			start: date(1, 6), end: date(3, 12),
			want: []exporter.Window{
				{Start: date(1, 6), End: date(2, 0)},
				{Start: date(2, 0), End: date(3, 0)},
				{Start: date(3, 0), End: date(3, 12)},
			},
		},
		"Sub-day range": {
			start: date(1, 6), end: date(1, 18),
			want:  []exporter.Window{{Start: date(1, 6), End: date(1, 18)}},
		},
		"Empty range":    {start: date(1, 0), end: date(1, 0)},
		"Inverted range": {start: date(2, 0), end: date(1, 0)},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := exporter.DayWindows(tc.start, tc.end)
			assert.Equal(t, tc.want, got)

			if len(got) == 0 {
				return
			}

			// Windows must be contiguous, non-overlapping, and clamped to the range.
			require.True(t, tc.start.Equal(got[0].Start), "first window should start at the range start")
			require.True(t, tc.end.Equal(got[len(got)-1].End), "last window should be clamped to the range end")
			for i := 1; i < len(got); i++ {
				assert.True(t, got[i-1].End.Equal(got[i].Start), "window %d should start where window %d ends", i, i-1)
			}
		})
	}
}
