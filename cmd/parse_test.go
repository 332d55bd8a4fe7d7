package cmd

import (
	"errors"
	"testing"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
	"github.com/marcus/hours/internal/validate"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    models.DayIndex
		wantErr bool
	}{
		{"monday", models.Monday, false},
		{"Mon", models.Monday, false},
		{"tu", models.Tuesday, false},
		{"th", models.Thursday, false},
		{" SUNDAY ", models.Sunday, false},
		{"0", models.Monday, false},
		{"6", models.Sunday, false},
		{"7", 0, true},
		{"t", 0, true},
		{"funday", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDay(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDay(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		in   string
		want []models.DayIndex
	}{
		{"mon,wed,fri", []models.DayIndex{models.Monday, models.Wednesday, models.Friday}},
		{"weekdays", []models.DayIndex{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}},
		{"weekend", []models.DayIndex{models.Saturday, models.Sunday}},
		{"tue-thu", []models.DayIndex{models.Tuesday, models.Wednesday, models.Thursday}},
		{"mon,mon,mo", []models.DayIndex{models.Monday}},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := parseDays(tt.in)
		if err != nil {
			t.Errorf("parseDays(%q): %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseDays(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseDays(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}

	if _, err := parseDays("fri-mon"); err == nil {
		t.Error("backwards range should fail")
	}
	if _, err := parseDays("mon,someday"); err == nil {
		t.Error("unknown day should fail")
	}
}

func TestParseFrame(t *testing.T) {
	f, err := parseFrame("9:00am - 5:00pm")
	if err != nil {
		t.Fatalf("parseFrame: %v", err)
	}
	if f.Start != timeofday.MustNew(9, 0) || f.End != timeofday.MustNew(17, 0) {
		t.Errorf("got %s-%s", f.Start, f.End)
	}
	if f.ID == "" {
		t.Error("frame should get an ID")
	}

	if _, err := parseFrame("9:00am"); err == nil {
		t.Error("missing dash should fail")
	}
	if _, err := parseFrame("25:00-26:00"); !errors.Is(err, timeofday.ErrFormat) {
		t.Errorf("bad time: got %v, want ErrFormat", err)
	}
	if _, err := parseFrame("5:00pm-9:00am"); !errors.Is(err, validate.ErrOrder) {
		t.Errorf("reversed frame: got %v, want ErrOrder", err)
	}
}

func TestParseFrames(t *testing.T) {
	day, err := parseFrames(models.Saturday, nil)
	if err != nil {
		t.Fatalf("parseFrames: %v", err)
	}
	if len(day.Frames) != 1 || day.Frames[0].Start != models.DefaultFrameStart {
		t.Errorf("no specs should give the default frame, got %+v", day.Frames)
	}

	day, err = parseFrames(models.Monday, []string{"9:00am-12:00pm", "1:00pm-5:00pm"})
	if err != nil {
		t.Fatalf("parseFrames: %v", err)
	}
	if len(day.Frames) != 2 || day.Index != models.Monday {
		t.Errorf("got %+v", day)
	}

	if _, err := parseFrames(models.Monday, []string{"9:00am-1:00pm", "12:00pm-5:00pm"}); !errors.Is(err, validate.ErrAdjacency) {
		t.Errorf("overlap: got %v, want ErrAdjacency", err)
	}
}

func TestBuildSchedule(t *testing.T) {
	s, err := buildSchedule(createInput{
		Name:   "  Gym ",
		Days:   []models.DayIndex{models.Monday, models.Friday},
		Frames: []string{"6:00am-8:00am"},
	})
	if err != nil {
		t.Fatalf("buildSchedule: %v", err)
	}
	if s.Name != "Gym" {
		t.Errorf("name = %q, want trimmed", s.Name)
	}
	if len(s.ActiveDays()) != 2 || s.Days[models.Tuesday] != nil {
		t.Errorf("days = %v", s.Availability())
	}
	// Each day owns its frames.
	if s.Days[models.Monday].Frames[0].ID == s.Days[models.Friday].Frames[0].ID {
		t.Error("frames on different days share an ID")
	}

	if _, err := buildSchedule(createInput{Name: "  "}); !errors.Is(err, validate.ErrNameRequired) {
		t.Errorf("blank name: got %v, want ErrNameRequired", err)
	}
}
