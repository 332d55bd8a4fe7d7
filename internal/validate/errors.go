package validate

import (
	"sort"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
)

// FieldKey addresses one time input within a schedule.
type FieldKey struct {
	Day     models.DayIndex
	FrameID string
	Side    models.Side
}

// Errors maps time inputs to their current validation error.
type Errors map[FieldKey]error

// Empty reports whether no field has an error.
func (e Errors) Empty() bool { return len(e) == 0 }

// For returns the error for a field, or nil.
func (e Errors) For(day models.DayIndex, frameID string, side models.Side) error {
	return e[FieldKey{Day: day, FrameID: frameID, Side: side}]
}

// Keys returns the failing fields ordered by day, then frame ID, then side.
func (e Errors) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Day != keys[j].Day {
			return keys[i].Day < keys[j].Day
		}
		if keys[i].FrameID != keys[j].FrameID {
			return keys[i].FrameID < keys[j].FrameID
		}
		return keys[i].Side < keys[j].Side
	})
	return keys
}

// ScheduleErrors collects every field error in the schedule. Format errors
// attach to the side holding the bad text; order errors to the start side;
// adjacency errors to the end side.
func ScheduleErrors(s *models.WeeklySchedule) Errors {
	errs := Errors{}
	if s == nil {
		return errs
	}
	for _, day := range s.ActiveDays() {
		for i, f := range day.Frames {
			startBad, endBad := false, false
			if f.StartDraft.Pending {
				if _, err := timeofday.Parse(f.StartDraft.Raw); err != nil {
					errs[FieldKey{day.Index, f.ID, models.SideStart}] = err
					startBad = true
				}
			}
			if f.EndDraft.Pending {
				if _, err := timeofday.Parse(f.EndDraft.Raw); err != nil {
					errs[FieldKey{day.Index, f.ID, models.SideEnd}] = err
					endBad = true
				}
			}
			if !startBad && !endBad {
				if err := ValidateFrame(f); err != nil {
					errs[FieldKey{day.Index, f.ID, models.SideStart}] = err
				}
			}
			if !endBad {
				if err := ValidateAdjacency(day, i); err != nil {
					errs[FieldKey{day.Index, f.ID, models.SideEnd}] = err
				}
			}
		}
	}
	return errs
}
