package entry

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock value without a date, e.g. 09:30.
// The zero value is midnight.
type TimeOfDay struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// NewTimeOfDay validates the hour and minute and returns the value.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute out of range: %d", minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Minutes returns the value as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// AddHours returns the time shifted by h hours, wrapping around midnight.
func (t TimeOfDay) AddHours(h int) TimeOfDay {
	hour := (t.Hour + h) % 24
	if hour < 0 {
		hour += 24
	}
	return TimeOfDay{Hour: hour, Minute: t.Minute}
}

// String returns the 24-hour form "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Clock12 returns the 12-hour display form "hh:mm AM"/"hh:mm PM".
// Re-parsing this form through the normalizer reproduces the same value,
// since the explicit period suppresses work-window clamping.
func (t TimeOfDay) Clock12() string {
	period := "AM"
	hour := t.Hour
	if hour >= 12 {
		period = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, t.Minute, period)
}

// MarshalJSON encodes the value as its "HH:MM" string form.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes the "HH:MM" string form.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("parse time %s: not a string", s)
	}
	s = s[1 : len(s)-1]
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return fmt.Errorf("parse time %q: %w", s, err)
	}
	parsed, err := NewTimeOfDay(hour, minute)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Storage returns the canonical on-disk form "HH:MM:SS".
func (t TimeOfDay) Storage() string {
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute)
}

// ParseStorage parses the canonical "HH:MM:SS" form written by Storage.
func ParseStorage(s string) (TimeOfDay, error) {
	var hour, minute, second int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &second); err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	if second != 0 {
		return TimeOfDay{}, fmt.Errorf("parse time %q: non-zero seconds", s)
	}
	return NewTimeOfDay(hour, minute)
}

// DateFormat is the calendar-day key layout used throughout the store.
const DateFormat = "2006-01-02"

// FormatDate renders a date as the "YYYY-MM-DD" key.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a "YYYY-MM-DD" key.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
