package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/marcus/hours/internal/timeofday"
)

// DaysPerWeek is the number of weekday slots in a schedule.
const DaysPerWeek = 7

// DayIndex identifies a weekday slot: 0=Monday ... 6=Sunday.
type DayIndex int

const (
	Monday DayIndex = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Valid reports whether d is in 0..6.
func (d DayIndex) Valid() bool { return d >= 0 && d < DaysPerWeek }

// String returns the full weekday name.
func (d DayIndex) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Short returns the two-letter abbreviation ("Mo", "Tu", ...).
func (d DayIndex) Short() string {
	if !d.Valid() {
		return "??"
	}
	return dayNames[d][:2]
}

// Side selects the start or end of a time frame.
type Side int

const (
	SideStart Side = iota
	SideEnd
)

func (s Side) String() string {
	if s == SideEnd {
		return "end"
	}
	return "start"
}

// Default frame bounds for new days and new schedules.
var (
	DefaultFrameStart = timeofday.MustNew(9, 0)
	DefaultFrameEnd   = timeofday.MustNew(17, 0)
)

// Draft is uncommitted text typed into a time field that failed to parse.
// Pending is false when the field shows its committed time.
type Draft struct {
	Raw     string
	Pending bool
}

// TimeFrame is a half-open interval [Start, End) within one day.
type TimeFrame struct {
	ID         string
	Start      timeofday.TimeOfDay
	End        timeofday.TimeOfDay
	StartDraft Draft
	EndDraft   Draft
}

// NewFrame returns a frame with a fresh opaque ID.
func NewFrame(start, end timeofday.TimeOfDay) TimeFrame {
	return TimeFrame{ID: NewID(), Start: start, End: end}
}

// Time returns the committed time on the given side.
func (f TimeFrame) Time(side Side) timeofday.TimeOfDay {
	if side == SideEnd {
		return f.End
	}
	return f.Start
}

// Draft returns the draft for the given side.
func (f TimeFrame) Draft(side Side) Draft {
	if side == SideEnd {
		return f.EndDraft
	}
	return f.StartDraft
}

// Display returns the text a field should show: the pending draft if any,
// otherwise the canonical committed time.
func (f TimeFrame) Display(side Side) string {
	if d := f.Draft(side); d.Pending {
		return d.Raw
	}
	return f.Time(side).String()
}

// HasDraft reports whether either side holds uncommitted text.
func (f TimeFrame) HasDraft() bool {
	return f.StartDraft.Pending || f.EndDraft.Pending
}

// Day is a weekday slot holding ordered, non-overlapping frames.
type Day struct {
	Index  DayIndex
	Frames []TimeFrame
}

// NewDefaultDay returns a day with a single 9:00 am - 5:00 pm frame.
func NewDefaultDay(i DayIndex) *Day {
	return &Day{Index: i, Frames: []TimeFrame{NewFrame(DefaultFrameStart, DefaultFrameEnd)}}
}

// FrameIndex returns the position of the frame with the given ID, or -1.
func (d *Day) FrameIndex(id string) int {
	for i := range d.Frames {
		if d.Frames[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the day.
func (d *Day) Clone() *Day {
	if d == nil {
		return nil
	}
	c := &Day{Index: d.Index, Frames: make([]TimeFrame, len(d.Frames))}
	copy(c.Frames, d.Frames)
	return c
}

// WeeklySchedule is a named set of availability days. Days is indexed by
// DayIndex; a nil entry means the weekday is not part of the schedule.
type WeeklySchedule struct {
	ID          string
	Name        string
	Description string
	Days        [DaysPerWeek]*Day
}

// NewSchedule returns a schedule with Monday through Friday set to 9-5.
func NewSchedule(name, description string) *WeeklySchedule {
	s := &WeeklySchedule{Name: name, Description: description}
	for i := Monday; i <= Friday; i++ {
		s.Days[i] = NewDefaultDay(i)
	}
	return s
}

// Day returns the day at index i, or nil when absent or out of range.
func (s *WeeklySchedule) Day(i DayIndex) *Day {
	if !i.Valid() {
		return nil
	}
	return s.Days[i]
}

// ActiveDays returns present days in index order.
func (s *WeeklySchedule) ActiveDays() []*Day {
	days := make([]*Day, 0, DaysPerWeek)
	for _, d := range s.Days {
		if d != nil {
			days = append(days, d)
		}
	}
	return days
}

// Clone returns a deep copy of the schedule.
func (s *WeeklySchedule) Clone() *WeeklySchedule {
	if s == nil {
		return nil
	}
	c := *s
	for i, d := range s.Days {
		c.Days[i] = d.Clone()
	}
	return &c
}

// IsBuiltin reports whether the schedule is one of the protected defaults
// that cannot be renamed or deleted.
func (s *WeeklySchedule) IsBuiltin() bool {
	return IsBuiltinName(s.Name)
}

// BuiltinNames are the schedules every account starts with.
var BuiltinNames = []string{"Study", "Work"}

// IsBuiltinName reports whether name belongs to a protected schedule.
func IsBuiltinName(name string) bool {
	for _, n := range BuiltinNames {
		if n == name {
			return true
		}
	}
	return false
}

// Interval is a frame reduced to its committed bounds, used for comparison
// and wire mapping where frame IDs and drafts do not matter.
type Interval struct {
	Start timeofday.TimeOfDay
	End   timeofday.TimeOfDay
}

// Availability is the comparable essence of a schedule's days: for every
// weekday, nil when absent or the ordered committed intervals.
type Availability [DaysPerWeek][]Interval

// Availability extracts the comparable day/frame set of the schedule.
func (s *WeeklySchedule) Availability() Availability {
	var a Availability
	for i, d := range s.Days {
		if d == nil {
			continue
		}
		ivs := make([]Interval, len(d.Frames))
		for j, f := range d.Frames {
			ivs[j] = Interval{Start: f.Start, End: f.End}
		}
		a[i] = ivs
	}
	return a
}

// Equal reports whether two availabilities hold the same days with the same
// ordered intervals.
func (a Availability) Equal(b Availability) bool {
	for i := range a {
		if (a[i] == nil) != (b[i] == nil) || len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}
