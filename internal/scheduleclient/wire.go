package scheduleclient

import (
	"fmt"
	"time"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
)

// --- Wire types (mirrors internal/api/schedules.go, independently defined) ---

// FrameJSON is one time frame on the wire.
type FrameJSON struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

// DayJSON is one weekday on the wire.
type DayJSON struct {
	DayIndex   int         `json:"day_index"`
	TimeFrames []FrameJSON `json:"time_frames"`
}

// ScheduleJSON is a schedule as sent and received. The reference backend
// names the identifier "_id"; "id" is accepted too.
type ScheduleJSON struct {
	MongoID     string    `json:"_id,omitempty"`
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DaysOfWeek  []DayJSON `json:"days_of_week"`
}

// Identifier returns whichever ID field the server populated.
func (s ScheduleJSON) Identifier() string {
	if s.MongoID != "" {
		return s.MongoID
	}
	return s.ID
}

// PatchJSON is the body for PUT /schedulingHours/{id}. Absent fields are left
// unchanged by the server.
type PatchJSON struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	DaysOfWeek  *[]DayJSON `json:"days_of_week,omitempty"`
}

// EncodeDays maps availability to wire days in index order, rendering times
// in loc.
func EncodeDays(a models.Availability, loc *time.Location) []DayJSON {
	days := make([]DayJSON, 0, models.DaysPerWeek)
	for i, ivs := range a {
		if ivs == nil {
			continue
		}
		d := DayJSON{DayIndex: i, TimeFrames: make([]FrameJSON, len(ivs))}
		for j, iv := range ivs {
			d.TimeFrames[j] = FrameJSON{
				StartAt: timeofday.ToWire(iv.Start, loc),
				EndAt:   timeofday.ToWire(iv.End, loc),
			}
		}
		days = append(days, d)
	}
	return days
}

// EncodeSchedule maps a schedule to its wire form.
func EncodeSchedule(s *models.WeeklySchedule, loc *time.Location) ScheduleJSON {
	return ScheduleJSON{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		DaysOfWeek:  EncodeDays(s.Availability(), loc),
	}
}

// DecodeSchedule maps a wire schedule to a model, reading times as wall
// clock in loc and assigning fresh frame IDs. Days are placed by their index;
// a later duplicate index replaces an earlier one.
func DecodeSchedule(w ScheduleJSON, loc *time.Location) (*models.WeeklySchedule, error) {
	s := &models.WeeklySchedule{
		ID:          w.Identifier(),
		Name:        w.Name,
		Description: w.Description,
	}
	for _, d := range w.DaysOfWeek {
		idx := models.DayIndex(d.DayIndex)
		if !idx.Valid() {
			return nil, fmt.Errorf("schedule %s: day_index %d out of range", s.ID, d.DayIndex)
		}
		day := &models.Day{Index: idx, Frames: make([]models.TimeFrame, 0, len(d.TimeFrames))}
		for _, f := range d.TimeFrames {
			start, err := timeofday.FromWire(f.StartAt, loc)
			if err != nil {
				return nil, fmt.Errorf("schedule %s %s: %w", s.ID, idx, err)
			}
			end, err := timeofday.FromWire(f.EndAt, loc)
			if err != nil {
				return nil, fmt.Errorf("schedule %s %s: %w", s.ID, idx, err)
			}
			day.Frames = append(day.Frames, models.NewFrame(start, end))
		}
		if len(day.Frames) == 0 {
			continue
		}
		s.Days[idx] = day
	}
	return s, nil
}
