package availability

import (
	"github.com/marcus/hours/internal/models"
)

// Command is a state transition accepted by Apply.
type Command interface {
	// Target returns the schedule the command addresses, or "" for
	// store-wide commands.
	Target() string
}

// ReplaceAll swaps in a freshly fetched set of schedules.
type ReplaceAll struct {
	Schedules []*models.WeeklySchedule
}

func (ReplaceAll) Target() string { return "" }

// AddSchedule appends a schedule returned by a remote create.
type AddSchedule struct {
	Schedule *models.WeeklySchedule
}

func (AddSchedule) Target() string { return "" }

// RemoveSchedule drops a schedule after a remote delete.
type RemoveSchedule struct {
	ScheduleID string
}

func (c RemoveSchedule) Target() string { return c.ScheduleID }

// Rename replaces a schedule's name.
type Rename struct {
	ScheduleID string
	Name       string
}

func (c Rename) Target() string { return c.ScheduleID }

// SetDescription replaces a schedule's description.
type SetDescription struct {
	ScheduleID string
	Text       string
}

func (c SetDescription) Target() string { return c.ScheduleID }

// AddDay inserts a default 9-5 day if the weekday is absent.
type AddDay struct {
	ScheduleID string
	Day        models.DayIndex
}

func (c AddDay) Target() string { return c.ScheduleID }

// RemoveDay removes a weekday if present.
type RemoveDay struct {
	ScheduleID string
	Day        models.DayIndex
}

func (c RemoveDay) Target() string { return c.ScheduleID }

// AddTimeFrame inserts a new frame directly after AfterFrameID.
type AddTimeFrame struct {
	ScheduleID   string
	Day          models.DayIndex
	AfterFrameID string
}

func (c AddTimeFrame) Target() string { return c.ScheduleID }

// RemoveTimeFrame deletes a frame from a day.
type RemoveTimeFrame struct {
	ScheduleID string
	Day        models.DayIndex
	FrameID    string
}

func (c RemoveTimeFrame) Target() string { return c.ScheduleID }

// SetFrameTime commits typed text to one side of a frame.
type SetFrameTime struct {
	ScheduleID string
	Day        models.DayIndex
	FrameID    string
	Side       models.Side
	Raw        string
}

func (c SetFrameTime) Target() string { return c.ScheduleID }
