package editor

import (
	"context"
	"time"

	"github.com/marcus/hours/internal/debounce"
	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/scheduleclient"
	"github.com/marcus/hours/internal/timeofday"
)

// Backend is the remote schedule service the editor reads from and writes
// to. *scheduleclient.Client implements it.
type Backend interface {
	FetchAll(ctx context.Context) ([]*models.WeeklySchedule, error)
	Create(ctx context.Context, s *models.WeeklySchedule) (*models.WeeklySchedule, error)
	Update(ctx context.Context, id string, p scheduleclient.Patch) error
	UpdateDays(ctx context.Context, id string, days models.Availability) error
	Delete(ctx context.Context, id string) error
}

// Options configures a Model.
type Options struct {
	Backend         Backend
	BaseDir         string // directory holding .hours/ UI state
	FieldDebounce   time.Duration
	CommitDebounce  time.Duration
	ConfirmDuration time.Duration
	SoftBound       timeofday.TimeOfDay
}

// rowKind is the kind of a selectable line in the editor.
type rowKind int

const (
	rowHeader rowKind = iota // schedule title, expands/collapses
	rowName
	rowDescription
	rowDay   // weekday toggle
	rowFrame // one time frame with start and end fields
)

// row is one selectable line. Frame rows carry the frame position and ID.
type row struct {
	kind       rowKind
	scheduleID string
	day        models.DayIndex
	frameIdx   int
	frameID    string
}

// fieldKey addresses one time input; it keys the W1 debounce tier.
type fieldKey struct {
	ScheduleID string
	Day        models.DayIndex
	FrameID    string
	Side       models.Side
}

// editKind is what the focused text input is editing.
type editKind int

const (
	editNone editKind = iota
	editTime
	editName
	editDescription
	editNewSchedule
)

// Messages

// schedulesLoadedMsg carries the result of a full fetch.
type schedulesLoadedMsg struct {
	Schedules []*models.WeeklySchedule
	Err       error
}

// fieldDebounceMsg is the W1 timer for a time field. Raw is the input text
// when the timer was started.
type fieldDebounceMsg struct {
	Key   fieldKey
	Token debounce.Token
	Raw   string
}

// commitDebounceMsg is the W2 timer for a schedule.
type commitDebounceMsg struct {
	ScheduleID string
	Token      debounce.Token
}

// syncDoneMsg reports the outcome of a days write.
type syncDoneMsg struct {
	ScheduleID string
	Err        error
}

// confirmExpiredMsg ends the "saved" confirmation for a schedule.
type confirmExpiredMsg struct {
	ScheduleID string
	Token      debounce.Token
}

// fieldSavedMsg reports the outcome of a name or description save.
type fieldSavedMsg struct {
	ScheduleID string
	Field      string
	Err        error
}

// scheduleCreatedMsg carries a schedule created on the server.
type scheduleCreatedMsg struct {
	Schedule *models.WeeklySchedule
	Err      error
}

// scheduleDeletedMsg reports a server-side delete.
type scheduleDeletedMsg struct {
	ScheduleID string
	Err        error
}
