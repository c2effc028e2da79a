package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// InputLayout is the minute-precision local time format used when editing
	// timestamps.
	InputLayout = "2006-01-02T15:04"

	layoutDate = "Jan 2, 2006"
	layoutTime = "03:04 PM"
)

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a time in loc.
func FromMillis(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}

// ToInput renders ms as an editable local time string. Seconds and
// milliseconds are dropped.
func ToInput(ms int64, loc *time.Location) string {
	return FromMillis(ms, loc).Format(InputLayout)
}

// FromInput parses an editable local time string back to epoch milliseconds.
func FromInput(v string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("empty time")
	}
	t, err := time.ParseInLocation(InputLayout, v, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", v, err)
	}
	return t.UnixMilli(), nil
}

// TruncateMinute drops everything below minute precision from ms.
func TruncateMinute(ms int64, loc *time.Location) int64 {
	t := FromMillis(ms, loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location()).UnixMilli()
}

// FormatClock renders d as HH:MM:SS. Hours are not wrapped at 24.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDate renders ms like "Jan 2, 2006".
func FormatDate(ms int64, loc *time.Location) string {
	return FromMillis(ms, loc).Format(layoutDate)
}

// FormatTime renders ms like "03:04 PM".
func FormatTime(ms int64, loc *time.Location) string {
	return FromMillis(ms, loc).Format(layoutTime)
}

// Midnight returns local midnight of the day containing t.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date in a's zone.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DaysBetween counts calendar days from a to b, ignoring the wall clock.
// Daylight saving transitions do not shift the result.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}
