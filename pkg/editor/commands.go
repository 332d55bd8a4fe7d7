package editor

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/hours/internal/config"
	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/scheduleclient"
)

// requestTimeout bounds each backend call issued from the editor. The HTTP
// client carries its own timeout as well.
const requestTimeout = 30 * time.Second

func (m Model) fetchSchedules() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		schedules, err := backend.FetchAll(ctx)
		return schedulesLoadedMsg{Schedules: schedules, Err: err}
	}
}

// writeDays sends the settled availability through the engine, which owns
// the snapshot bookkeeping for the write.
func (m Model) writeDays(id string, days models.Availability) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := engine.Write(ctx, id, days)
		if err != nil {
			slog.Warn("write schedule days", "schedule", id, "err", err)
		}
		return syncDoneMsg{ScheduleID: id, Err: err}
	}
}

func (m Model) saveField(id, field string, p scheduleclient.Patch) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := backend.Update(ctx, id, p)
		return fieldSavedMsg{ScheduleID: id, Field: field, Err: err}
	}
}

func (m Model) createSchedule(name string) tea.Cmd {
	backend, baseDir := m.backend, m.BaseDir
	return func() tea.Msg {
		if err := config.SetLastScheduleName(baseDir, name); err != nil {
			slog.Warn("remember schedule name", "err", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		created, err := backend.Create(ctx, models.NewSchedule(name, ""))
		return scheduleCreatedMsg{Schedule: created, Err: err}
	}
}

func (m Model) deleteSchedule(id string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return scheduleDeletedMsg{ScheduleID: id, Err: backend.Delete(ctx, id)}
	}
}

// persistExpanded saves which panel is open so the next session restores it.
func (m Model) persistExpanded() tea.Cmd {
	baseDir, id := m.BaseDir, m.expanded
	return func() tea.Msg {
		var err error
		if id == "" {
			err = config.ClearExpandedSchedule(baseDir)
		} else {
			err = config.SetExpandedSchedule(baseDir, id)
		}
		if err != nil {
			slog.Warn("persist expanded schedule", "err", err)
		}
		return nil
	}
}
