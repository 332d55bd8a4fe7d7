package serverdb

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *ServerDB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	db, err := New(conn)
	if err != nil {
		conn.Close()
		t.Fatalf("init test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func weekdays() []Day {
	var days []Day
	for i := 0; i < 5; i++ {
		days = append(days, Day{DayIndex: i, TimeFrames: []Frame{{
			StartAt: "2000-01-01T02:00:00Z",
			EndAt:   "2000-01-01T10:00:00Z",
		}}})
	}
	return days
}

func TestOpen_FileRunsMigrations(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "data", "server.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if v := db.SchemaVersion(); v != SchemaVersion {
		t.Fatalf("schema version = %d, want %d", v, SchemaVersion)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestCreateAndGetSchedule(t *testing.T) {
	db := newTestDB(t)
	s, err := db.CreateSchedule("  Work ", "office", weekdays())
	if err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}
	if s.ID == "" || s.Name != "Work" || len(s.Days) != 5 {
		t.Fatalf("created = %+v", s)
	}
	got, err := db.GetSchedule(s.ID)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if got.Days[4].DayIndex != 4 || got.Days[0].TimeFrames[0].EndAt != "2000-01-01T10:00:00Z" {
		t.Fatalf("days = %+v", got.Days)
	}
	if got.CreatedAt.IsZero() {
		t.Errorf("created_at not set")
	}
}

func TestCreateSchedule_EmptyName(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.CreateSchedule(" ", "", nil); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestGetSchedule_NotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.GetSchedule("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListSchedules(t *testing.T) {
	db := newTestDB(t)
	list, err := db.ListSchedules()
	if err != nil || len(list) != 0 || list == nil {
		t.Fatalf("empty list = %v, %v", list, err)
	}
	db.CreateSchedule("A", "", nil)
	db.CreateSchedule("B", "", nil)
	list, err = db.ListSchedules()
	if err != nil || len(list) != 2 || list[0].Name != "A" || list[1].Name != "B" {
		t.Fatalf("list = %+v, %v", list, err)
	}
	if list[0].Days == nil {
		t.Errorf("days should decode as empty slice")
	}
}

func TestUpdateSchedule_Partial(t *testing.T) {
	db := newTestDB(t)
	s, _ := db.CreateSchedule("Work", "office", weekdays())

	newDays := []Day{{DayIndex: 6, TimeFrames: []Frame{{StartAt: "2000-01-01T03:00:00Z", EndAt: "2000-01-01T05:00:00Z"}}}}
	got, err := db.UpdateSchedule(s.ID, SchedulePatch{Days: newDays})
	if err != nil {
		t.Fatalf("UpdateSchedule: %v", err)
	}
	if got.Name != "Work" || got.Description != "office" {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if len(got.Days) != 1 || got.Days[0].DayIndex != 6 {
		t.Errorf("days = %+v", got.Days)
	}

	name := "Shift"
	got, err = db.UpdateSchedule(s.ID, SchedulePatch{Name: &name})
	if err != nil || got.Name != "Shift" || len(got.Days) != 1 {
		t.Fatalf("rename = %+v, %v", got, err)
	}

	blank := ""
	if _, err := db.UpdateSchedule(s.ID, SchedulePatch{Name: &blank}); err == nil {
		t.Errorf("expected error for blank name")
	}
	if _, err := db.UpdateSchedule("missing", SchedulePatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: %v", err)
	}
}

func TestDeleteSchedule(t *testing.T) {
	db := newTestDB(t)
	s, _ := db.CreateSchedule("Temp", "", nil)
	deleted, err := db.DeleteSchedule(s.ID)
	if err != nil || deleted.ID != s.ID {
		t.Fatalf("DeleteSchedule = %+v, %v", deleted, err)
	}
	if _, err := db.DeleteSchedule(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSeedSchedules_OnlyWhenEmpty(t *testing.T) {
	db := newTestDB(t)
	seed := []Schedule{{Name: "Study", Days: weekdays()}, {Name: "Work", Days: weekdays()}}
	n, err := db.SeedSchedules(seed)
	if err != nil || n != 2 {
		t.Fatalf("seed = %d, %v", n, err)
	}
	n, err = db.SeedSchedules(seed)
	if err != nil || n != 0 {
		t.Fatalf("reseed = %d, %v", n, err)
	}
	if c, _ := db.CountSchedules(); c != 2 {
		t.Fatalf("count = %d", c)
	}
}
