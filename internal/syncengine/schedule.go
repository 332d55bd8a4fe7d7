package syncengine

import (
	"context"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/validate"
)

// DaysWriter sends a schedule's full day/frame set to the remote store.
type DaysWriter func(ctx context.Context, scheduleID string, days models.Availability) error

// ScheduleEngine commits schedule availability, keyed by schedule ID. Only
// days and frames are compared; frame IDs, drafts, name and description are
// ignored.
type ScheduleEngine struct {
	*Committer[string, models.Availability]
}

// NewScheduleEngine returns an engine that writes through w.
func NewScheduleEngine(w DaysWriter) *ScheduleEngine {
	return &ScheduleEngine{
		Committer: NewCommitter(models.Availability.Equal, WriteFunc[string, models.Availability](w)),
	}
}

// SeedAll records every schedule as confirmed, e.g. after a fetch.
func (e *ScheduleEngine) SeedAll(schedules []*models.WeeklySchedule) {
	for _, s := range schedules {
		e.Seed(s.ID, s.Availability())
	}
}

// SettleSchedule diffs s against its snapshot. Any field error anywhere in
// the schedule suppresses the write.
func (e *ScheduleEngine) SettleSchedule(s *models.WeeklySchedule) Decision[models.Availability] {
	valid := validate.ScheduleErrors(s).Empty()
	return e.Settle(s.ID, s.Availability(), valid)
}
