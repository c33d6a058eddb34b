package criteria

import "time"

// day-granularity filter values; longer timestamps are truncated to the day
var dayLayouts = []string{time.DateOnly, "2006/01/02", "01/02/2006"}

// DayStart parses a date filter value to the start of that calendar day.
// The second return is false when the value is absent or unparseable; a
// malformed date filter is treated as no filter rather than excluding
// everything.
func DayStart(value string) (time.Time, bool) {
	day, ok := parseDay(value)
	if !ok {
		return time.Time{}, false
	}
	return day, true
}

// DayEnd parses a date filter value to the end of that calendar day, so
// the upper bound is inclusive.
func DayEnd(value string) (time.Time, bool) {
	day, ok := parseDay(value)
	if !ok {
		return time.Time{}, false
	}
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond), true
}

func parseDay(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if len(value) > len(time.DateOnly) {
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			year, month, day := ts.UTC().Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
		}
	}
	for _, layout := range dayLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
