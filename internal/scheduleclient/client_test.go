package scheduleclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
)

func plus7(t *testing.T) *time.Location {
	t.Helper()
	loc, err := timeofday.ParseOffset("+07:00")
	if err != nil {
		t.Fatalf("ParseOffset: %v", err)
	}
	return loc
}

func TestFetchAll_ShiftsIntoOffset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/schedulingHours" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Authorization = %q", got)
		}
		io.WriteString(w, `[{"_id":"abc","name":"Work","description":"","days_of_week":[
			{"day_index":0,"time_frames":[{"start_at":"2000-01-01T02:00:00Z","end_at":"2000-01-01T10:00:00Z"}]},
			{"day_index":4,"time_frames":[{"start_at":"09:00:00+07:00","end_at":"17:00:00+07:00"}]}
		]}]`)
	}))
	defer srv.Close()

	c := New(srv.URL, "key", plus7(t), time.Second)
	got, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 1 || got[0].ID != "abc" || got[0].Name != "Work" {
		t.Fatalf("got %+v", got)
	}
	for _, d := range []models.DayIndex{models.Monday, models.Friday} {
		day := got[0].Days[d]
		if day == nil || len(day.Frames) != 1 {
			t.Fatalf("%s missing", d)
		}
		f := day.Frames[0]
		if f.Start.String() != "9:00 am" || f.End.String() != "5:00 pm" {
			t.Errorf("%s = %s-%s", d, f.Start, f.End)
		}
	}
	if got[0].Days[models.Tuesday] != nil {
		t.Errorf("tuesday should be absent")
	}
}

func TestUpdateDays_SendsFullSet(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" || r.URL.Path != "/schedulingHours/abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := models.NewSchedule("Focus", "")
	c := New(srv.URL, "", plus7(t), time.Second)
	if err := c.UpdateDays(context.Background(), "abc", s.Availability()); err != nil {
		t.Fatalf("UpdateDays: %v", err)
	}
	if _, ok := body["name"]; ok {
		t.Errorf("name should be omitted from a days-only patch")
	}
	var days []DayJSON
	if err := json.Unmarshal(body["days_of_week"], &days); err != nil {
		t.Fatalf("days_of_week: %v", err)
	}
	if len(days) != 5 || days[0].TimeFrames[0].StartAt != "09:00:00+07:00" || days[0].TimeFrames[0].EndAt != "17:00:00+07:00" {
		t.Fatalf("days = %+v", days)
	}
}

func TestErrors_AreTransportErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{"not found", 404, `{"error":{"code":"not_found","message":"no such schedule"}}`, ErrNotFound, "no such schedule"},
		{"unauthorized", 401, `{"error":{"code":"unauthorized","message":"bad key"}}`, ErrUnauthorized, "bad key"},
		{"rate limited", 429, `{"error":{"code":"rate_limited","message":"slow down"}}`, ErrRateLimited, "slow down"},
		{"fastapi detail", 422, `{"detail":"name required"}`, ErrTransport, "name required"},
		{"plain text", 500, "kaput", ErrTransport, "kaput"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			err := New(srv.URL, "", nil, time.Second).Delete(context.Background(), "x")
			if !errors.Is(err, tt.want) || !errors.Is(err, ErrTransport) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			var te *TransportError
			if !errors.As(err, &te) || te.Status != tt.status || te.Message != tt.msg {
				t.Fatalf("TransportError = %+v", te)
			}
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, "", nil, time.Second).HealthCheck(context.Background())
	var te *TransportError
	if !errors.As(err, &te) || te.Status != 0 || te.Err == nil {
		t.Fatalf("got %v", err)
	}
}

func TestCreate_ReturnsServerID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in ScheduleJSON
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		if in.Identifier() != "" {
			t.Errorf("create should not send an id, got %q", in.Identifier())
		}
		in.MongoID = "new-id"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	s := models.NewSchedule("Evenings", "after work")
	s.ID = "local"
	got, err := New(srv.URL, "", plus7(t), time.Second).Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != "new-id" || got.Name != "Evenings" || !got.Availability().Equal(s.Availability()) {
		t.Fatalf("got %+v", got)
	}
}

type pair struct{ start, end string }

func TestWireRoundTrip_PreservesDaysAndPairs(t *testing.T) {
	loc := plus7(t)
	s := models.NewSchedule("Mixed", "")
	s.Days[models.Monday].Frames = append(s.Days[models.Monday].Frames,
		models.NewFrame(timeofday.MustParse("6:00 pm"), timeofday.MustParse("7:30 pm")))
	s.Days[models.Sunday] = &models.Day{Index: models.Sunday, Frames: []models.TimeFrame{
		models.NewFrame(timeofday.MustParse("12:15 am"), timeofday.MustParse("11:59 pm")),
	}}
	s.Days[models.Wednesday] = nil

	back, err := DecodeSchedule(EncodeSchedule(s, loc), loc)
	if err != nil {
		t.Fatalf("DecodeSchedule: %v", err)
	}
	for i := range s.Days {
		want, got := pairs(s.Days[i]), pairs(back.Days[i])
		if len(want) != len(got) {
			t.Fatalf("day %d: %v vs %v", i, want, got)
		}
		for j := range want {
			if want[j] != got[j] {
				t.Fatalf("day %d: %v vs %v", i, want, got)
			}
		}
	}
}

func pairs(d *models.Day) []pair {
	if d == nil {
		return nil
	}
	out := make([]pair, len(d.Frames))
	for i, f := range d.Frames {
		out[i] = pair{f.Start.String(), f.End.String()}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func TestDecodeSchedule_BadDayIndex(t *testing.T) {
	_, err := DecodeSchedule(ScheduleJSON{DaysOfWeek: []DayJSON{{DayIndex: 9}}}, nil)
	if err == nil {
		t.Fatalf("expected error for day_index 9")
	}
}

func TestRequestIDSentAndReported(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL, "", nil, time.Second).Delete(context.Background(), "x")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %v", err)
	}
	if seen == "" || te.RequestID != seen {
		t.Fatalf("sent %q, error carries %q", seen, te.RequestID)
	}
	if !strings.Contains(err.Error(), seen) {
		t.Errorf("error text %q should name the request", err.Error())
	}
}
