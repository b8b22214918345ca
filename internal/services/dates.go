package services

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateAtLocation reduces a moment to its calendar day in the given
// location, normalized to a UTC midnight so stored dates compare cleanly.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.Local
	}
	local := value.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD value into a UTC midnight timestamp.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, raw)
	}
	return parsed, nil
}

// FormatDate renders a timestamp as its YYYY-MM-DD day.
func FormatDate(value time.Time) string {
	return value.Format(dateLayout)
}

// DaysBetween counts whole days from start to end, negative when end
// precedes start.
func DaysBetween(start time.Time, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
