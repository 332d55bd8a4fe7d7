// Package availability holds every weekly schedule the editor knows about and
// applies edit commands to it. Apply never mutates its input: each touched
// schedule is cloned before it is changed, so earlier states stay valid as
// snapshots.
package availability

import (
	"errors"
	"fmt"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
	"github.com/marcus/hours/internal/validate"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrDayNotFound      = errors.New("day not found")
	ErrFrameNotFound    = errors.New("frame not found")
	ErrCapacity         = errors.New("day must keep at least one frame")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMissingID        = errors.New("schedule has no id")
)

// CapacityError is returned when removing a frame would leave its day empty.
type CapacityError struct {
	Day models.DayIndex
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: cannot remove the only time frame", e.Day)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }

// State is an ordered, immutable set of schedules.
type State struct {
	Schedules []*models.WeeklySchedule
}

// Find returns the schedule with the given ID, or nil.
func (s State) Find(id string) *models.WeeklySchedule {
	if i := s.index(id); i >= 0 {
		return s.Schedules[i]
	}
	return nil
}

func (s State) index(id string) int {
	for i, sc := range s.Schedules {
		if sc.ID == id {
			return i
		}
	}
	return -1
}

// replace returns a copy of s with schedule i swapped for sc.
func (s State) replace(i int, sc *models.WeeklySchedule) State {
	next := make([]*models.WeeklySchedule, len(s.Schedules))
	copy(next, s.Schedules)
	next[i] = sc
	return State{Schedules: next}
}

// Apply runs cmd against state and returns the resulting state. On error the
// input state is returned unchanged.
func Apply(state State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case ReplaceAll:
		next := make([]*models.WeeklySchedule, 0, len(c.Schedules))
		for _, sc := range c.Schedules {
			if sc != nil {
				next = append(next, sc.Clone())
			}
		}
		return State{Schedules: next}, nil

	case AddSchedule:
		if c.Schedule == nil {
			return state, fmt.Errorf("add schedule: %w", ErrScheduleNotFound)
		}
		if c.Schedule.ID == "" {
			return state, fmt.Errorf("add schedule %q: %w", c.Schedule.Name, ErrMissingID)
		}
		if i := state.index(c.Schedule.ID); i >= 0 {
			return state.replace(i, c.Schedule.Clone()), nil
		}
		next := make([]*models.WeeklySchedule, len(state.Schedules), len(state.Schedules)+1)
		copy(next, state.Schedules)
		return State{Schedules: append(next, c.Schedule.Clone())}, nil

	case RemoveSchedule:
		i := state.index(c.ScheduleID)
		if i < 0 {
			return state, fmt.Errorf("remove schedule %s: %w", c.ScheduleID, ErrScheduleNotFound)
		}
		next := make([]*models.WeeklySchedule, 0, len(state.Schedules)-1)
		next = append(next, state.Schedules[:i]...)
		next = append(next, state.Schedules[i+1:]...)
		return State{Schedules: next}, nil
	}

	i := state.index(cmd.Target())
	if i < 0 {
		return state, fmt.Errorf("schedule %s: %w", cmd.Target(), ErrScheduleNotFound)
	}
	sc := state.Schedules[i].Clone()
	if err := applySchedule(sc, cmd); err != nil {
		return state, err
	}
	return state.replace(i, sc), nil
}

// applySchedule mutates sc, which must be a private clone.
func applySchedule(sc *models.WeeklySchedule, cmd Command) error {
	switch c := cmd.(type) {
	case Rename:
		if err := validate.ValidateName(c.Name); err != nil {
			return err
		}
		sc.Name = c.Name

	case SetDescription:
		sc.Description = c.Text

	case AddDay:
		if !c.Day.Valid() {
			return fmt.Errorf("add day %d: %w", c.Day, ErrDayNotFound)
		}
		if sc.Days[c.Day] == nil {
			sc.Days[c.Day] = models.NewDefaultDay(c.Day)
		}

	case RemoveDay:
		if !c.Day.Valid() {
			return fmt.Errorf("remove day %d: %w", c.Day, ErrDayNotFound)
		}
		sc.Days[c.Day] = nil

	case AddTimeFrame:
		day, j, err := locate(sc, c.Day, c.AfterFrameID)
		if err != nil {
			return err
		}
		iv, _ := validate.NextFrame(day.Frames[j].End)
		f := models.NewFrame(iv.Start, iv.End)
		frames := make([]models.TimeFrame, 0, len(day.Frames)+1)
		frames = append(frames, day.Frames[:j+1]...)
		frames = append(frames, f)
		frames = append(frames, day.Frames[j+1:]...)
		day.Frames = frames

	case RemoveTimeFrame:
		day, j, err := locate(sc, c.Day, c.FrameID)
		if err != nil {
			return err
		}
		if !validate.CanRemove(day) {
			return &CapacityError{Day: c.Day}
		}
		day.Frames = append(day.Frames[:j:j], day.Frames[j+1:]...)

	case SetFrameTime:
		day, j, err := locate(sc, c.Day, c.FrameID)
		if err != nil {
			return err
		}
		setFrameTime(&day.Frames[j], c.Side, c.Raw)

	default:
		return fmt.Errorf("%T: %w", cmd, ErrUnknownCommand)
	}
	return nil
}

func locate(sc *models.WeeklySchedule, d models.DayIndex, frameID string) (*models.Day, int, error) {
	day := sc.Day(d)
	if day == nil {
		return nil, -1, fmt.Errorf("%s: %w", d, ErrDayNotFound)
	}
	j := day.FrameIndex(frameID)
	if j < 0 {
		return nil, -1, fmt.Errorf("%s frame %s: %w", d, frameID, ErrFrameNotFound)
	}
	return day, j, nil
}

func setFrameTime(f *models.TimeFrame, side models.Side, raw string) {
	t, err := timeofday.Parse(raw)
	draft := models.Draft{}
	if err != nil {
		draft = models.Draft{Raw: raw, Pending: true}
	}
	switch side {
	case models.SideStart:
		if err == nil {
			f.Start = t
		}
		f.StartDraft = draft
	case models.SideEnd:
		if err == nil {
			f.End = t
		}
		f.EndDraft = draft
	}
}
