package serverdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a schedule does not exist.
var ErrNotFound = errors.New("schedule not found")

// Frame is a stored time frame. Times are RFC 3339 datetimes pinned to
// 2000-01-01 UTC.
type Frame struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

// Day is a stored weekday.
type Day struct {
	DayIndex   int     `json:"day_index"`
	TimeFrames []Frame `json:"time_frames"`
}

// Schedule is a stored scheduling-hours document.
type Schedule struct {
	ID          string
	Name        string
	Description string
	Days        []Day
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SchedulePatch holds optional replacements; nil fields are kept.
type SchedulePatch struct {
	Name        *string
	Description *string
	Days        []Day // nil keeps the current days
}

const scheduleColumns = "id, name, description, days_of_week, created_at, updated_at"

func scanSchedule(row interface{ Scan(...any) error }) (*Schedule, error) {
	var s Schedule
	var days string
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &days, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(days), &s.Days); err != nil {
		return nil, fmt.Errorf("decode days_of_week for %s: %w", s.ID, err)
	}
	if s.Days == nil {
		s.Days = []Day{}
	}
	return &s, nil
}

func encodeDays(days []Day) (string, error) {
	if days == nil {
		days = []Day{}
	}
	data, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encode days_of_week: %w", err)
	}
	return string(data), nil
}

// CreateSchedule inserts a new schedule with a fresh ID.
func (db *ServerDB) CreateSchedule(name, description string, days []Day) (*Schedule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	encoded, err := encodeDays(days)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	id := NewID()
	_, err = db.conn.Exec(
		`INSERT INTO schedules (id, name, description, days_of_week, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, description, encoded, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	return db.GetSchedule(id)
}

// GetSchedule returns a schedule by ID, or ErrNotFound.
func (db *ServerDB) GetSchedule(id string) (*Schedule, error) {
	row := db.conn.QueryRow(`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	s, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return s, nil
}

// ListSchedules returns every schedule in creation order.
func (db *ServerDB) ListSchedules() ([]*Schedule, error) {
	rows, err := db.conn.Query(`SELECT ` + scheduleColumns + ` FROM schedules ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	out := []*Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateSchedule applies a patch and returns the updated schedule.
func (db *ServerDB) UpdateSchedule(id string, p SchedulePatch) (*Schedule, error) {
	var sets []string
	var args []any
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Days != nil {
		encoded, err := encodeDays(p.Days)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "days_of_week = ?")
		args = append(args, encoded)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := db.conn.Exec(`UPDATE schedules SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetSchedule(id)
}

// DeleteSchedule removes a schedule and returns what was deleted.
func (db *ServerDB) DeleteSchedule(id string) (*Schedule, error) {
	s, err := db.GetSchedule(id)
	if err != nil {
		return nil, err
	}
	if _, err := db.conn.Exec(`DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete schedule: %w", err)
	}
	return s, nil
}

// CountSchedules returns the number of stored schedules.
func (db *ServerDB) CountSchedules() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM schedules`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count schedules: %w", err)
	}
	return n, nil
}

// SeedSchedules inserts the given schedules when the table is empty. It
// returns how many were inserted.
func (db *ServerDB) SeedSchedules(seed []Schedule) (int, error) {
	n, err := db.CountSchedules()
	if err != nil || n > 0 {
		return 0, err
	}
	for i, s := range seed {
		if _, err := db.CreateSchedule(s.Name, s.Description, s.Days); err != nil {
			return i, fmt.Errorf("seed %s: %w", s.Name, err)
		}
	}
	return len(seed), nil
}
