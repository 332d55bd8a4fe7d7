package timeofday

import (
	"fmt"
	"strings"
	"time"
)

// wireLayouts are tried in order by FromWire. The reference backend may
// return either a bare time with offset or a full datetime pinned to
// 2000-01-01.
var wireLayouts = []string{
	"15:04:05Z07:00",
	"15:04:05Z0700",
	"15:04:05",
	"15:04Z07:00",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// ParseOffset reads a fixed offset such as "+07:00", "-0530" or "Z".
func ParseOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" || strings.EqualFold(s, "utc") {
		return time.UTC, nil
	}
	t, err := time.Parse("-07:00", s)
	if err != nil {
		t, err = time.Parse("-0700", s)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid utc offset %q", s)
	}
	_, secs := t.Zone()
	return time.FixedZone(s, secs), nil
}

// ToWire renders t as "HH:MM:SS±hh:mm" in the given fixed zone. Nil means UTC.
func ToWire(t TimeOfDay, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	d := time.Date(2000, 1, 1, t.Hour(), t.Minute(), 0, 0, loc)
	return d.Format("15:04:05Z07:00")
}

// FromWire parses a wire time and returns the wall clock in loc. Values
// carrying their own offset are shifted into loc; bare values are taken as
// already being in loc. Only a single calendar day is modeled, so the date
// part of datetime inputs is discarded after the shift.
func FromWire(s string, loc *time.Location) (TimeOfDay, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	for _, layout := range wireLayouts {
		var (
			parsed time.Time
			err    error
		)
		if strings.Contains(layout, "Z07") {
			parsed, err = time.Parse(layout, s)
		} else {
			parsed, err = time.ParseInLocation(layout, s, loc)
		}
		if err != nil {
			continue
		}
		local := parsed.In(loc)
		return TimeOfDay{min: local.Hour()*60 + local.Minute()}, nil
	}
	return TimeOfDay{}, fmt.Errorf("parse wire time %q: %w", s, ErrFormat)
}

// ToDatetime renders t as an RFC 3339 datetime on 2000-01-01 in UTC, the
// form the reference backend stores.
func ToDatetime(t TimeOfDay) string {
	return time.Date(2000, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC).Format(time.RFC3339)
}
