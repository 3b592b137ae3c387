package exporter

import "time"

// Window is a single start/end request range.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindows splits the range between start and end into successive one-day
// windows. Each window ends at the following midnight, clamped to end, so the
// windows are contiguous and non-overlapping.
//
// An empty or inverted range yields no windows.
func DayWindows(start, end time.Time) []Window {
	var windows []Window

	for cur := start; cur.Before(end); {
		next := nextMidnight(cur)
		if next.After(end) {
			next = end
		}
		windows = append(windows, Window{Start: cur, End: next})
		cur = next
	}

	return windows
}

// nextMidnight returns the first midnight strictly after t, in t's location.
func nextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
