package availability

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
	"github.com/marcus/hours/internal/validate"
)

func newState(t *testing.T) (State, *models.WeeklySchedule) {
	t.Helper()
	sc := models.NewSchedule("Focus", "deep work")
	sc.ID = "s1"
	st, err := Apply(State{}, ReplaceAll{Schedules: []*models.WeeklySchedule{sc}})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	return st, st.Find("s1")
}

func mustApply(t *testing.T, st State, cmd Command) State {
	t.Helper()
	next, err := Apply(st, cmd)
	if err != nil {
		t.Fatalf("Apply(%T): %v", cmd, err)
	}
	return next
}

func TestAddTimeFrame_ScenarioA(t *testing.T) {
	st, sc := newState(t)
	first := sc.Days[models.Monday].Frames[0].ID

	st = mustApply(t, st, AddTimeFrame{ScheduleID: "s1", Day: models.Monday, AfterFrameID: first})

	frames := st.Find("s1").Days[models.Monday].Frames
	if len(frames) != 2 {
		t.Fatalf("want 2 frames, got %d", len(frames))
	}
	if frames[1].Start.String() != "6:00 pm" || frames[1].End.String() != "7:00 pm" {
		t.Fatalf("added frame = %s-%s, want 6:00 pm-7:00 pm", frames[1].Start, frames[1].End)
	}
	if frames[1].ID == "" || frames[1].ID == first {
		t.Fatalf("added frame needs a fresh ID, got %q", frames[1].ID)
	}
	if len(sc.Days[models.Monday].Frames) != 1 {
		t.Fatalf("input state was mutated")
	}
}

func TestAddTimeFrame_AfterTenPM(t *testing.T) {
	st, sc := newState(t)
	id := sc.Days[models.Monday].Frames[0].ID
	st = mustApply(t, st, SetFrameTime{ScheduleID: "s1", Day: models.Monday, FrameID: id, Side: models.SideEnd, Raw: "10:00 pm"})
	st = mustApply(t, st, AddTimeFrame{ScheduleID: "s1", Day: models.Monday, AfterFrameID: id})

	added := st.Find("s1").Days[models.Monday].Frames[1]
	if added.Start.String() != "11:00 pm" || added.End.String() != "11:59 pm" {
		t.Fatalf("added frame = %s-%s, want 11:00 pm-11:59 pm", added.Start, added.End)
	}
}

func TestAddTimeFrame_InsertsAfterFrame(t *testing.T) {
	st, sc := newState(t)
	id := sc.Days[models.Monday].Frames[0].ID
	st = mustApply(t, st, SetFrameTime{ScheduleID: "s1", Day: models.Monday, FrameID: id, Side: models.SideEnd, Raw: "11:00 am"})
	st = mustApply(t, st, AddTimeFrame{ScheduleID: "s1", Day: models.Monday, AfterFrameID: id})
	// Move the 12-1 frame to 3-5 so a second add after 9-11 lands between.
	mid := st.Find("s1").Days[models.Monday].Frames[1]
	st = mustApply(t, st, SetFrameTime{ScheduleID: "s1", Day: models.Monday, FrameID: mid.ID, Side: models.SideStart, Raw: "3:00 pm"})
	st = mustApply(t, st, SetFrameTime{ScheduleID: "s1", Day: models.Monday, FrameID: mid.ID, Side: models.SideEnd, Raw: "5:00 pm"})
	st = mustApply(t, st, AddTimeFrame{ScheduleID: "s1", Day: models.Monday, AfterFrameID: id})

	frames := st.Find("s1").Days[models.Monday].Frames
	if len(frames) != 3 || frames[1].Start.String() != "12:00 pm" || frames[2].ID != mid.ID {
		t.Fatalf("unexpected order: %+v", frames)
	}
}

func TestRemoveTimeFrame(t *testing.T) {
	st, sc := newState(t)
	id := sc.Days[models.Monday].Frames[0].ID

	_, err := Apply(st, RemoveTimeFrame{ScheduleID: "s1", Day: models.Monday, FrameID: id})
	var capErr *CapacityError
	if !errors.As(err, &capErr) || !errors.Is(err, ErrCapacity) {
		t.Fatalf("removing the only frame: got %v, want CapacityError", err)
	}

	st = mustApply(t, st, AddTimeFrame{ScheduleID: "s1", Day: models.Monday, AfterFrameID: id})
	st = mustApply(t, st, RemoveTimeFrame{ScheduleID: "s1", Day: models.Monday, FrameID: id})
	frames := st.Find("s1").Days[models.Monday].Frames
	if len(frames) != 1 || frames[0].Start.String() != "6:00 pm" {
		t.Fatalf("remaining frames = %+v", frames)
	}
}

func TestSetFrameTime_DraftOnFailure(t *testing.T) {
	// Scenario C: unparsable text is kept verbatim and the time is unchanged.
	st, sc := newState(t)
	id := sc.Days[models.Monday].Frames[0].ID
	st = mustApply(t, st, SetFrameTime{ScheduleID: "s1", Day: models.Monday, FrameID: id, Side: models.SideStart, Raw: "25:00 pm"})

	f := st.Find("s1").Days[models.Monday].Frames[0]
	if f.Start != models.DefaultFrameStart {
		t.Fatalf("start changed to %s", f.Start)
	}
	if f.Display(models.SideStart) != "25:00 pm" {
		t.Fatalf("draft not preserved: %q", f.Display(models.SideStart))
	}
	errs := validate.ScheduleErrors(st.Find("s1"))
	if !errors.Is(errs.For(models.Monday, id, models.SideStart), timeofday.ErrFormat) {
		t.Fatalf("want format error, got %v", errs)
	}

	st = mustApply(t, st, SetFrameTime{ScheduleID: "s1", Day: models.Monday, FrameID: id, Side: models.SideStart, Raw: "08:30AM"})
	f = st.Find("s1").Days[models.Monday].Frames[0]
	if f.HasDraft() || f.Start.String() != "8:30 am" {
		t.Fatalf("commit failed: %+v", f)
	}
}

func TestDaysAndFields(t *testing.T) {
	st, _ := newState(t)
	st = mustApply(t, st, AddDay{ScheduleID: "s1", Day: models.Saturday})
	st = mustApply(t, st, AddDay{ScheduleID: "s1", Day: models.Saturday})
	st = mustApply(t, st, RemoveDay{ScheduleID: "s1", Day: models.Monday})
	st = mustApply(t, st, RemoveDay{ScheduleID: "s1", Day: models.Monday})
	st = mustApply(t, st, SetDescription{ScheduleID: "s1", Text: ""})
	st = mustApply(t, st, Rename{ScheduleID: "s1", Name: "Evenings"})

	sc := st.Find("s1")
	if sc.Days[models.Saturday] == nil || len(sc.Days[models.Saturday].Frames) != 1 {
		t.Errorf("saturday not added")
	}
	if sc.Days[models.Monday] != nil {
		t.Errorf("monday not removed")
	}
	if sc.Name != "Evenings" || sc.Description != "" {
		t.Errorf("fields = %q / %q", sc.Name, sc.Description)
	}

	if _, err := Apply(st, Rename{ScheduleID: "s1", Name: " "}); !errors.Is(err, validate.ErrNameRequired) {
		t.Errorf("blank rename: %v", err)
	}
}

func TestApply_NotFound(t *testing.T) {
	st, sc := newState(t)
	id := sc.Days[models.Monday].Frames[0].ID
	tests := []struct {
		name string
		cmd  Command
		want error
	}{
		{"schedule", Rename{ScheduleID: "nope", Name: "x"}, ErrScheduleNotFound},
		{"day", AddTimeFrame{ScheduleID: "s1", Day: models.Sunday, AfterFrameID: id}, ErrDayNotFound},
		{"frame", SetFrameTime{ScheduleID: "s1", Day: models.Monday, FrameID: "nope", Raw: "9:00 am"}, ErrFrameNotFound},
		{"remove schedule", RemoveSchedule{ScheduleID: "nope"}, ErrScheduleNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(st, tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if got.Find("s1") != st.Find("s1") {
				t.Fatalf("state changed on error")
			}
		})
	}
}

func TestAddRemoveSchedule(t *testing.T) {
	st, _ := newState(t)
	other := models.NewSchedule("Work", "")
	other.ID = "s2"
	st = mustApply(t, st, AddSchedule{Schedule: other})
	if len(st.Schedules) != 2 || st.Find("s2") == nil {
		t.Fatalf("schedule not added")
	}
	st = mustApply(t, st, RemoveSchedule{ScheduleID: "s1"})
	if len(st.Schedules) != 1 || st.Schedules[0].ID != "s2" {
		t.Fatalf("schedule not removed: %+v", st.Schedules)
	}
}

func TestAddSchedule_RequiresID(t *testing.T) {
	st, _ := newState(t)
	st.Schedules[0].ID = ""
	noID := models.NewSchedule("Unsaved", "")

	got, err := Apply(st, AddSchedule{Schedule: noID})
	if !errors.Is(err, ErrMissingID) {
		t.Fatalf("err = %v, want ErrMissingID", err)
	}
	if len(got.Schedules) != 1 || got.Schedules[0].Name != "Focus" {
		t.Fatalf("existing schedule overwritten: %+v", got.Schedules)
	}
}

// Random add/remove sequences that honor CanAddAfter/CanRemove must keep
// every day sorted and non-overlapping.
func TestFrameInvariantsHold(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	st, _ := newState(t)
	for step := 0; step < 500; step++ {
		sc := st.Find("s1")
		d := models.DayIndex(rng.Intn(5))
		day := sc.Days[d]
		i := rng.Intn(len(day.Frames))
		if rng.Intn(2) == 0 {
			if validate.CanAddAfter(day, i, validate.DefaultSoftBound) {
				st = mustApply(t, st, AddTimeFrame{ScheduleID: "s1", Day: d, AfterFrameID: day.Frames[i].ID})
			}
		} else if validate.CanRemove(day) {
			st = mustApply(t, st, RemoveTimeFrame{ScheduleID: "s1", Day: d, FrameID: day.Frames[i].ID})
		}

		for _, day := range st.Find("s1").ActiveDays() {
			if len(day.Frames) == 0 {
				t.Fatalf("step %d: %s has no frames", step, day.Index)
			}
			for j, f := range day.Frames {
				if !f.Start.Before(f.End) {
					t.Fatalf("step %d: %s frame %d not ordered: %s-%s", step, day.Index, j, f.Start, f.End)
				}
				if j > 0 && day.Frames[j-1].End.After(f.Start) {
					t.Fatalf("step %d: %s frames %d/%d overlap", step, day.Index, j-1, j)
				}
			}
		}
	}
}
