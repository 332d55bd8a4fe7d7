// Package validate checks time frames against the ordering, adjacency and
// in-day bounds a schedule must satisfy, and decides which add/remove
// controls are available.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
)

// Sentinel errors matched by the typed errors below.
var (
	ErrOrder        = errors.New("start must be before end")
	ErrAdjacency    = errors.New("frame overlaps its neighbor")
	ErrNameRequired = errors.New("name is required")
)

// DefaultSoftBound is the latest end after which no frame may be appended.
var DefaultSoftBound = timeofday.MustNew(22, 0)

// lateStart/lateEnd is the frame appended after one ending exactly at the
// default soft bound.
var (
	lateStart = timeofday.MustNew(23, 0)
	lateEnd   = timeofday.MustNew(23, 59)
)

// OrderError reports a frame whose start is not strictly before its end.
type OrderError struct {
	Start timeofday.TimeOfDay
	End   timeofday.TimeOfDay
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("Must be before %s", e.End)
}

func (e *OrderError) Is(target error) bool { return target == ErrOrder }

// AdjacencyError reports an end that runs into the next frame, or a
// midnight end.
type AdjacencyError struct {
	End       timeofday.TimeOfDay
	NextStart timeofday.TimeOfDay
	Midnight  bool
}

func (e *AdjacencyError) Error() string {
	if e.Midnight {
		return "Invalid time: a frame cannot end at midnight"
	}
	return fmt.Sprintf("Invalid time: overlaps frame starting %s", e.NextStart)
}

func (e *AdjacencyError) Is(target error) bool { return target == ErrAdjacency }

// ValidateFrame fails with the codec's FormatError when either side holds
// unparsed text, and with *OrderError unless start < end.
func ValidateFrame(f models.TimeFrame) error {
	for _, side := range []models.Side{models.SideStart, models.SideEnd} {
		if d := f.Draft(side); d.Pending {
			if _, err := timeofday.Parse(d.Raw); err != nil {
				return err
			}
		}
	}
	if !f.Start.Before(f.End) {
		return &OrderError{Start: f.Start, End: f.End}
	}
	return nil
}

// ValidateAdjacency checks frame i against the frame after it, and rejects a
// midnight end.
func ValidateAdjacency(day *models.Day, i int) error {
	if day == nil || i < 0 || i >= len(day.Frames) {
		return fmt.Errorf("frame %d out of range", i)
	}
	f := day.Frames[i]
	if f.End.IsMidnight() {
		return &AdjacencyError{End: f.End, Midnight: true}
	}
	if i < len(day.Frames)-1 {
		next := day.Frames[i+1]
		if f.End.After(next.Start) {
			return &AdjacencyError{End: f.End, NextStart: next.Start}
		}
	}
	return nil
}

// NextFrame returns the bounds of a frame appended after one ending at end:
// {23:00, 23:59} after exactly 10:00 pm, otherwise {end+1h, end+2h}. ok is
// false when the proposal would cross midnight.
func NextFrame(end timeofday.TimeOfDay) (iv models.Interval, ok bool) {
	if end == DefaultSoftBound {
		return models.Interval{Start: lateStart, End: lateEnd}, true
	}
	start, w1 := end.Add(time.Hour)
	stop, w2 := end.Add(2 * time.Hour)
	return models.Interval{Start: start, End: stop}, !w1 && !w2 && !stop.IsMidnight()
}

// CanAddAfter reports whether a frame may be appended after frame i. The
// proposal from NextFrame must fit before the following frame; after the
// last frame, the end must also be earlier than the soft bound.
func CanAddAfter(day *models.Day, i int, softBound timeofday.TimeOfDay) bool {
	if day == nil || i < 0 || i >= len(day.Frames) {
		return false
	}
	f := day.Frames[i]
	if f.HasDraft() {
		return false
	}
	iv, ok := NextFrame(f.End)
	if !ok {
		return false
	}
	if i == len(day.Frames)-1 {
		return f.End.Before(softBound)
	}
	return !iv.End.After(day.Frames[i+1].Start)
}

// CanRemove reports whether a frame may be removed from the day.
func CanRemove(day *models.Day) bool {
	return day != nil && len(day.Frames) > 1
}

// ValidateName rejects an empty or whitespace-only schedule name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}
