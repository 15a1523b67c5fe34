package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateKeyLayout = "2006-01-02"

// ParseTime converts a "HH:MM" wall-clock string into minutes from midnight.
func ParseTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatTime renders minutes from midnight as "h:mm AM/PM" for display.
func FormatTime(minutes int) string {
	h := (minutes / 60) % 24
	m := minutes % 60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, m, period)
}

// FormatTimeRange renders a start/duration pair as "h:mm AM - h:mm PM".
func FormatTimeRange(start, durationMinutes int) string {
	return fmt.Sprintf("%s - %s", FormatTime(start), FormatTime(start+durationMinutes))
}

// AddMinutes offsets a minutes-from-midnight value.
func AddMinutes(minutes, delta int) int {
	return minutes + delta
}

// DateKey formats a time as a timezone-naive "YYYY-MM-DD" calendar date.
// Date keys are compared lexically throughout the engine to avoid timezone
// drift.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" calendar date.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", key)
	}
	return t, nil
}

// TodayKey converts a wall-clock instant into the calendar date currently in
// effect at the given IANA timezone. This is the single point where the
// location's timezone is applied; the rest of the engine never reads a clock.
func TodayKey(timezone string, now time.Time) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return DateKey(now.In(loc)), nil
}
