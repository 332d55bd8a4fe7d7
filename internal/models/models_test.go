package models

import (
	"testing"

	"github.com/marcus/hours/internal/timeofday"
)

func TestNewSchedule_DefaultWeekdays(t *testing.T) {
	s := NewSchedule("Focus", "")
	for i := Monday; i <= Sunday; i++ {
		d := s.Day(i)
		if i <= Friday {
			if d == nil || len(d.Frames) != 1 {
				t.Fatalf("%s: want one default frame, got %+v", i, d)
			}
			if d.Frames[0].Start != DefaultFrameStart || d.Frames[0].End != DefaultFrameEnd {
				t.Errorf("%s: frame = %s-%s", i, d.Frames[0].Start, d.Frames[0].End)
			}
			continue
		}
		if d != nil {
			t.Errorf("%s: expected absent day", i)
		}
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := NewSchedule("Focus", "")
	c := s.Clone()
	c.Days[Monday].Frames[0].End = timeofday.MustParse("6:00 pm")
	c.Days[Tuesday] = nil
	if s.Days[Monday].Frames[0].End != DefaultFrameEnd {
		t.Fatalf("clone shares frame storage")
	}
	if s.Days[Tuesday] == nil {
		t.Fatalf("clone shares day array")
	}
}

func TestAvailability_IgnoresIDsAndDrafts(t *testing.T) {
	a := NewSchedule("A", "")
	b := NewSchedule("B", "")
	if !a.Availability().Equal(b.Availability()) {
		t.Fatalf("default schedules should compare equal despite different frame IDs")
	}
	b.Days[Monday].Frames[0].StartDraft = Draft{Raw: "9:0", Pending: true}
	if !a.Availability().Equal(b.Availability()) {
		t.Fatalf("drafts must not affect availability")
	}
	b.Days[Saturday] = NewDefaultDay(Saturday)
	if a.Availability().Equal(b.Availability()) {
		t.Fatalf("extra day must differ")
	}
}

func TestTimeFrame_Display(t *testing.T) {
	f := NewFrame(DefaultFrameStart, DefaultFrameEnd)
	if f.Display(SideStart) != "9:00 am" || f.Display(SideEnd) != "5:00 pm" {
		t.Fatalf("display = %q / %q", f.Display(SideStart), f.Display(SideEnd))
	}
	f.EndDraft = Draft{Raw: "25:00 pm", Pending: true}
	if f.Display(SideEnd) != "25:00 pm" || !f.HasDraft() {
		t.Fatalf("pending draft not displayed")
	}
}

func TestDayIndex_Names(t *testing.T) {
	if Monday.String() != "Monday" || Sunday.Short() != "Su" {
		t.Fatalf("names broken: %s %s", Monday, Sunday.Short())
	}
	if DayIndex(7).Valid() || DayIndex(-1).Valid() {
		t.Fatalf("out of range index reported valid")
	}
}

func TestIsBuiltinName(t *testing.T) {
	if !IsBuiltinName("Work") || !IsBuiltinName("Study") || IsBuiltinName("work") {
		t.Fatalf("builtin detection wrong")
	}
}
