package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
)

func testSchedule() *models.WeeklySchedule {
	s := models.NewSchedule("Work", "office hours")
	s.ID = "abc"
	s.Days[models.Monday].Frames = append(s.Days[models.Monday].Frames,
		models.NewFrame(timeofday.MustParse("6:00 pm"), timeofday.MustParse("7:00 pm")))
	s.Days[models.Friday] = nil
	return s
}

func TestViewOf(t *testing.T) {
	v := ViewOf(testSchedule())
	if !v.Builtin || v.ID != "abc" || len(v.Days) != 4 {
		t.Fatalf("view = %+v", v)
	}
	mon := v.Days[0]
	if mon.Day != "Monday" || len(mon.Frames) != 2 || mon.Frames[1] != (FrameView{"6:00 pm", "7:00 pm"}) {
		t.Fatalf("monday = %+v", mon)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"start":"9:00 am"`) {
		t.Fatalf("json = %s", data)
	}
}

func TestViewOf_NoDaysIsEmptyArray(t *testing.T) {
	s := &models.WeeklySchedule{ID: "x", Name: "Empty"}
	data, _ := json.Marshal(ViewOf(s))
	if !strings.Contains(string(data), `"days":[]`) {
		t.Fatalf("json = %s", data)
	}
}

func TestFormatFrames(t *testing.T) {
	s := testSchedule()
	if got := FormatFrames(s.Days[models.Monday]); got != "9:00 am-5:00 pm, 6:00 pm-7:00 pm" {
		t.Errorf("FormatFrames = %q", got)
	}
}

func TestDaySummary(t *testing.T) {
	tests := []struct {
		name string
		s    *models.WeeklySchedule
		want string
	}{
		{"weekdays", models.NewSchedule("A", ""), "Mo Tu We Th Fr"},
		{"no friday", testSchedule(), "Mo Tu We Th"},
		{"empty", &models.WeeklySchedule{}, "no days"},
	}
	for _, tt := range tests {
		if got := DaySummary(tt.s); got != tt.want {
			t.Errorf("%s: DaySummary = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatScheduleLong(t *testing.T) {
	out := FormatScheduleLong(testSchedule())
	for _, want := range []string{"Work", "office hours", "AVAILABILITY:", "6:00 pm-7:00 pm", "Thursday"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Friday") {
		t.Errorf("absent day rendered:\n%s", out)
	}
}

func TestScheduleMarkdown(t *testing.T) {
	md := ScheduleMarkdown(testSchedule())
	if !strings.HasPrefix(md, "# Work\n") || !strings.Contains(md, "| Monday | 9:00 am-5:00 pm, 6:00 pm-7:00 pm |") {
		t.Fatalf("markdown = %s", md)
	}
	empty := ScheduleMarkdown(&models.WeeklySchedule{Name: "Nothing"})
	if !strings.Contains(empty, "No days selected.") {
		t.Fatalf("markdown = %s", empty)
	}
}

func TestRenderMarkdownWithWidth_Empty(t *testing.T) {
	out, err := RenderMarkdownWithWidth("   ", 40)
	if err != nil || out != "" {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestTerminalWidth_Fallback(t *testing.T) {
	t.Setenv("COLUMNS", "")
	if w := TerminalWidth(0); w <= 0 {
		t.Fatalf("width = %d", w)
	}
	t.Setenv("COLUMNS", "123")
	// Under go test stdout is not a terminal, so COLUMNS wins.
	if !IsTerminal() {
		if w := TerminalWidth(80); w != 123 {
			t.Fatalf("width = %d, want 123", w)
		}
	}
}
