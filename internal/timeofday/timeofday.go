// Package timeofday parses and formats 12-hour wall-clock times ("9:00 am")
// and converts them to and from the fixed-offset wire form ("09:00:00+07:00").
package timeofday

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrFormat is matched by every *FormatError.
var ErrFormat = errors.New("invalid time")

// FormatError reports text that is not a valid 12-hour clock time.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q", e.Input)
}

// Is makes errors.Is(err, ErrFormat) true.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time stored as minutes since midnight.
type TimeOfDay struct {
	min int
}

// Midnight is 12:00 am.
var Midnight = TimeOfDay{}

// New returns the time for hour (0-23) and minute (0-59).
func New(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time %02d:%02d out of range", hour, minute)
	}
	return TimeOfDay{min: hour*60 + minute}, nil
}

// MustNew is New for constants; it panics on out-of-range input.
func MustNew(hour, minute int) TimeOfDay {
	t, err := New(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// Hour returns 0-23.
func (t TimeOfDay) Hour() int { return t.min / 60 }

// Minute returns 0-59.
func (t TimeOfDay) Minute() int { return t.min % 60 }

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.min }

// IsMidnight reports whether t is 12:00 am.
func (t TimeOfDay) IsMidnight() bool { return t.min == 0 }

// Before reports whether t is strictly earlier than u.
func (t TimeOfDay) Before(u TimeOfDay) bool { return t.min < u.min }

// After reports whether t is strictly later than u.
func (t TimeOfDay) After(u TimeOfDay) bool { return t.min > u.min }

// Add returns t+d wrapped into a single day. wrapped is true when the sum
// crossed midnight in either direction.
func (t TimeOfDay) Add(d time.Duration) (sum TimeOfDay, wrapped bool) {
	m := t.min + int(d/time.Minute)
	wrapped = m < 0 || m >= MinutesPerDay
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return TimeOfDay{min: m}, wrapped
}

// Compare returns -1, 0 or +1 ordering a and b by (hour, minute).
func Compare(a, b TimeOfDay) int {
	switch {
	case a.min < b.min:
		return -1
	case a.min > b.min:
		return 1
	default:
		return 0
	}
}

// String returns the canonical "h:mm a" form, e.g. "9:05 am".
func (t TimeOfDay) String() string {
	h := t.Hour()
	period := "am"
	if h >= 12 {
		period = "pm"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, t.Minute(), period)
}

// Format is t.String().
func Format(t TimeOfDay) string { return t.String() }

// clockPattern: 1-2 digit hour, optional colon, 2-digit minute, optional
// whitespace, am/pm. Hour and minute ranges are checked after matching so
// "25:00 pm" fails with the same error as "abc".
var clockPattern = regexp.MustCompile(`^(\d{1,2}):?(\d{2})\s*([aApP][mM])$`)

// Parse reads a 12-hour clock time such as "9:00 am", "09:00PM" or "900 pm".
func Parse(text string) (TimeOfDay, error) {
	s := strings.TrimSpace(text)
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, &FormatError{Input: text}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return TimeOfDay{}, &FormatError{Input: text}
	}
	hour %= 12
	if strings.EqualFold(m[3], "pm") {
		hour += 12
	}
	return TimeOfDay{min: hour*60 + minute}, nil
}

// MustParse is Parse for literals; it panics on invalid input.
func MustParse(text string) TimeOfDay {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Canonicalize returns the canonical form of text, or the FormatError.
func Canonicalize(text string) (string, error) {
	t, err := Parse(text)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}
