// Package timestr converts loosely-formatted time-of-day text into an
// unambiguous clock value.
//
// Accepted input is "1-2 digits, optional separator (: ; .), optional
// two-digit minutes, optional whitespace, optional AM/PM". Strings whose
// leading two digits form an hour from 13 to 23 are treated as 24-hour
// notation; a trailing AM is rejected there and a trailing PM is redundant.
// Twelve-hour input without an AM/PM suffix is disambiguated by clamping
// into a configured "typical work hours" window: a raw parse outside the
// window is shifted by twelve hours to bring it inside.
//
// Parsing is total and pure: the same input always yields the same value
// or ErrInvalidTime, and nothing is ever partially returned.
package timestr

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

// ErrInvalidTime is returned for any input that cannot be parsed.
var ErrInvalidTime = errors.New("invalid time string")

var (
	// 1-2 digit hour, optional separator, optional 2-digit minutes,
	// optional whitespace, optional AM/PM.
	validFormat = regexp.MustCompile(`^\d{1,2}[;:.]?(\d{2})?\s*((?i)[AP]M)?$`)

	// 24-hour shape: AM is not a valid suffix, PM is tolerated as a no-op.
	valid24Format = regexp.MustCompile(`^\d{2}[;:.]?(\d{2})?\s*((?i)PM)?$`)

	// Two leading digits followed by a non-digit or end, or exactly four
	// digits. Anything else ("123") keeps the first digit as the hour.
	leadingHourPair = regexp.MustCompile(`^\d{2}(\D|$|\d{2})`)

	periodSuffix = regexp.MustCompile(`(?i)[AP]M$`)
)

// Parser resolves ambiguous 12-hour input against a work-hours window.
// The window is exclusive at both ends: a raw parse equal to either bound
// counts as outside and is shifted.
type Parser struct {
	WindowStart entry.TimeOfDay
	WindowEnd   entry.TimeOfDay
}

// Default uses the typical 07:00-19:00 work window.
var Default = Parser{
	WindowStart: entry.TimeOfDay{Hour: 7},
	WindowEnd:   entry.TimeOfDay{Hour: 19},
}

// New returns a Parser with the given work window.
func New(windowStart, windowEnd entry.TimeOfDay) Parser {
	return Parser{WindowStart: windowStart, WindowEnd: windowEnd}
}

// Parse converts free-text time input using the default work window.
func Parse(value string) (entry.TimeOfDay, error) {
	return Default.Parse(value)
}

// Parse converts free-text time input into a time-of-day, or returns
// ErrInvalidTime.
func (p Parser) Parse(value string) (entry.TimeOfDay, error) {
	v := strings.TrimSpace(value)
	if v == "" || !validFormat.MatchString(v) {
		return entry.TimeOfDay{}, ErrInvalidTime
	}

	is24 := is24Hour(v)
	if is24 && !valid24Format.MatchString(v) {
		// 24-hour notation with a trailing AM.
		return entry.TimeOfDay{}, ErrInvalidTime
	}

	v = canonicalize(v, is24)

	hasPeriod := periodSuffix.MatchString(v)
	body := v
	var isPM bool
	if hasPeriod {
		isPM = strings.EqualFold(v[len(v)-2:], "PM")
		body = v[:len(v)-2]
	}

	hour, minute, err := splitClock(body)
	if err != nil {
		return entry.TimeOfDay{}, ErrInvalidTime
	}
	if minute > 59 {
		return entry.TimeOfDay{}, ErrInvalidTime
	}

	if is24 {
		// Detection guarantees 13-23; minutes were the only open question.
		return entry.TimeOfDay{Hour: hour, Minute: minute}, nil
	}

	// Strict 12-hour clock: hours run 1-12.
	if hour < 1 || hour > 12 {
		return entry.TimeOfDay{}, ErrInvalidTime
	}
	hour %= 12 // 12 AM is midnight
	if hasPeriod && isPM {
		hour += 12
	}

	t := entry.TimeOfDay{Hour: hour, Minute: minute}
	if !hasPeriod {
		t = p.clampToWindow(t)
	}
	return t, nil
}

// is24Hour reports whether the raw input reads as 24-hour notation:
// its first two digits form an hour from 13 to 23 and are not followed
// by a digit count that would make the split ambiguous.
func is24Hour(v string) bool {
	if len(v) < 2 || !leadingHourPair.MatchString(v) {
		return false
	}
	hour, err := strconv.Atoi(v[:2])
	if err != nil {
		return false
	}
	return hour >= 13 && hour <= 23
}

// canonicalize strips whitespace, unifies separators to ":", drops a
// redundant PM from 24-hour input, and inserts ":" before the last two
// digits of separator-less input that carries minutes.
func canonicalize(v string, is24 bool) string {
	v = strings.ReplaceAll(v, ";", ":")
	v = strings.ReplaceAll(v, ".", ":")
	v = strings.ReplaceAll(v, " ", "")

	if is24 && periodSuffix.MatchString(v) {
		v = v[:len(v)-2]
	}

	if !strings.Contains(v, ":") {
		switch digits := leadingDigits(v); {
		case digits == 3:
			v = v[:1] + ":" + v[1:]
		case digits >= 4:
			v = v[:2] + ":" + v[2:]
		}
	}

	if len(v) >= 2 && v[1] == ':' {
		v = "0" + v
	}
	return v
}

// leadingDigits counts the digit run at the start of v.
func leadingDigits(v string) int {
	n := 0
	for n < len(v) && v[n] >= '0' && v[n] <= '9' {
		n++
	}
	return n
}

// splitClock parses a canonical "HH" or "HH:MM" body.
func splitClock(body string) (hour, minute int, err error) {
	hourStr := body
	if i := strings.IndexByte(body, ':'); i >= 0 {
		hourStr = body[:i]
		minStr := body[i+1:]
		if len(minStr) != 2 {
			return 0, 0, ErrInvalidTime
		}
		if minute, err = strconv.Atoi(minStr); err != nil {
			return 0, 0, ErrInvalidTime
		}
	}
	if hour, err = strconv.Atoi(hourStr); err != nil {
		return 0, 0, ErrInvalidTime
	}
	return hour, minute, nil
}

// clampToWindow resolves an AM/PM-less 12-hour parse. A raw value inside
// the window stands; one outside is shifted twelve hours toward it.
func (p Parser) clampToWindow(t entry.TimeOfDay) entry.TimeOfDay {
	if p.WindowStart.Before(t) && t.Before(p.WindowEnd) {
		return t
	}
	if t.Hour < 12 {
		return t.AddHours(12)
	}
	return t.AddHours(-12)
}
