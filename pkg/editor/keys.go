package editor

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/hours/internal/availability"
	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/syncengine"
	"github.com/marcus/hours/internal/validate"
	"github.com/marcus/hours/pkg/editor/keymap"
)

// currentContext returns the keymap context for the model's state.
func (m Model) currentContext() keymap.Context {
	switch {
	case m.HelpOpen:
		return keymap.ContextHelp
	case m.confirmDelete != "":
		return keymap.ContextConfirm
	case m.editing != editNone:
		return keymap.ContextEditing
	default:
		return keymap.ContextMain
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.currentContext()
	cmd, ok := m.Keymap.Lookup(msg, ctx)
	if !ok {
		if ctx == keymap.ContextEditing {
			return m.typeIntoField(msg)
		}
		return m, nil
	}
	return m.executeCommand(cmd, ctx)
}

func (m Model) executeCommand(cmd keymap.Command, ctx keymap.Context) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdQuit:
		m.Stop()
		return m, tea.Quit

	case keymap.CmdToggleHelp:
		m.HelpOpen = !m.HelpOpen
		return m, nil

	case keymap.CmdConfirm:
		id := m.confirmDelete
		m.confirmDelete = ""
		if id == "" {
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Deleting %s...", m.scheduleName(id)))
		return m, m.deleteSchedule(id)

	case keymap.CmdCancel:
		m.confirmDelete = ""
		return m, nil
	}

	if ctx == keymap.ContextEditing {
		return m.executeEditingCommand(cmd)
	}

	switch cmd {
	case keymap.CmdRefresh:
		if m.hasUnsaved() {
			m.setError("Unsaved changes; wait for them to save before reloading")
			return m, nil
		}
		m.Loading = true
		return m, m.fetchSchedules()

	case keymap.CmdCursorDown:
		m.moveCursor(1)
	case keymap.CmdCursorUp:
		m.moveCursor(-1)
	case keymap.CmdCursorTop:
		m.cursor = 0
		m.side = models.SideStart
		m.scrollToCursor()
	case keymap.CmdCursorBottom:
		m.cursor = len(m.rows()) - 1
		m.side = models.SideStart
		m.clampCursor()
	case keymap.CmdNextField:
		m.nextField(1)
	case keymap.CmdPrevField:
		m.nextField(-1)

	case keymap.CmdSelect:
		return m.selectRow()

	case keymap.CmdClose:
		if m.expanded == "" {
			return m, nil
		}
		id := m.expanded
		m.expanded = ""
		m.focusRow(func(r row) bool { return r.kind == rowHeader && r.scheduleID == id })
		return m, m.persistExpanded()

	case keymap.CmdToggleDay:
		return m.toggleDay()
	case keymap.CmdAddFrame:
		return m.addFrame()
	case keymap.CmdRemoveFrame:
		return m.removeFrame()

	case keymap.CmdNewSchedule:
		m.beginTextEdit(editNewSchedule, "", "", "Schedule name")
		focus := m.input.Focus()
		return m, focus

	case keymap.CmdDeleteSchedule:
		r, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		sc := m.state.Find(r.scheduleID)
		if sc == nil {
			return m, nil
		}
		if sc.IsBuiltin() {
			m.setError(fmt.Sprintf("%s is built in and cannot be deleted", sc.Name))
			return m, nil
		}
		m.confirmDelete = sc.ID
		return m, nil

	case keymap.CmdRetrySync:
		r, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		if m.engine.Status(r.scheduleID) != syncengine.Failed {
			m.setStatus("Nothing to retry")
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Retrying %s...", m.scheduleName(r.scheduleID)))
		return m, m.settle(r.scheduleID)
	}
	return m, nil
}

func (m Model) executeEditingCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdCommitField:
		return m.commitEdit()

	case keymap.CmdCancelEdit:
		if m.editing == editTime {
			return m.blurTime()
		}
		m.endEdit()
		return m, nil

	case keymap.CmdNextField, keymap.CmdPrevField, keymap.CmdCursorDown, keymap.CmdCursorUp:
		next, blurCmd := m.commitEdit()
		nm := next.(Model)
		if nm.editing != editNone {
			// The edit was rejected and the field keeps focus.
			return nm, blurCmd
		}
		switch cmd {
		case keymap.CmdNextField:
			nm.nextField(1)
		case keymap.CmdPrevField:
			nm.nextField(-1)
		case keymap.CmdCursorDown:
			nm.moveCursor(1)
		case keymap.CmdCursorUp:
			nm.moveCursor(-1)
		}
		// Tabbing between time fields keeps an input focused.
		if cmd == keymap.CmdNextField || cmd == keymap.CmdPrevField {
			if r, ok := nm.currentRow(); ok && r.kind == rowFrame {
				var focusCmd tea.Cmd
				nm, focusCmd = nm.beginTimeEdit(r, nm.side)
				return nm, tea.Batch(blurCmd, focusCmd)
			}
		}
		return nm, blurCmd
	}
	return m, nil
}

// selectRow acts on the row under the cursor.
func (m Model) selectRow() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	sc := m.state.Find(r.scheduleID)
	if sc == nil {
		return m, nil
	}

	switch r.kind {
	case rowHeader:
		if m.expanded == sc.ID {
			m.expanded = ""
		} else {
			m.expanded = sc.ID
		}
		m.focusRow(func(x row) bool { return x.kind == rowHeader && x.scheduleID == sc.ID })
		return m, m.persistExpanded()

	case rowName:
		m.beginTextEdit(editName, sc.ID, sc.Name, "Schedule name")
		focus := m.input.Focus()
		return m, focus

	case rowDescription:
		m.beginTextEdit(editDescription, sc.ID, sc.Description, "Description")
		focus := m.input.Focus()
		return m, focus

	case rowDay:
		return m.toggleDay()

	case rowFrame:
		next, cmd := m.beginTimeEdit(r, m.side)
		return next, cmd
	}
	return m, nil
}

func (m Model) toggleDay() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok || (r.kind != rowDay && r.kind != rowFrame) {
		return m, nil
	}
	sc := m.state.Find(r.scheduleID)
	if sc == nil {
		return m, nil
	}

	var c availability.Command
	if sc.Day(r.day) != nil {
		c = availability.RemoveDay{ScheduleID: sc.ID, Day: r.day}
	} else {
		c = availability.AddDay{ScheduleID: sc.ID, Day: r.day}
	}
	next, cmd, err := m.applyEdit(c)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	next.focusRow(func(x row) bool { return x.kind == rowDay && x.scheduleID == sc.ID && x.day == r.day })
	return next, cmd
}

func (m Model) addFrame() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok || r.kind != rowFrame {
		return m, nil
	}
	sc := m.state.Find(r.scheduleID)
	if sc == nil {
		return m, nil
	}
	day := sc.Day(r.day)
	if !validate.CanAddAfter(day, r.frameIdx, m.softBound) {
		m.setError(fmt.Sprintf("No room for another time frame on %s", r.day))
		return m, nil
	}
	next, cmd, err := m.applyEdit(availability.AddTimeFrame{
		ScheduleID:   sc.ID,
		Day:          r.day,
		AfterFrameID: r.frameID,
	})
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	// The new frame sits directly below the current one.
	next.cursor++
	next.side = models.SideStart
	next.scrollToCursor()
	return next, cmd
}

func (m Model) removeFrame() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok || r.kind != rowFrame {
		return m, nil
	}
	sc := m.state.Find(r.scheduleID)
	if sc == nil {
		return m, nil
	}
	if !validate.CanRemove(sc.Day(r.day)) {
		m.setError("A day needs at least one time frame; toggle the day off instead")
		return m, nil
	}
	next, cmd, err := m.applyEdit(availability.RemoveTimeFrame{
		ScheduleID: sc.ID,
		Day:        r.day,
		FrameID:    r.frameID,
	})
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	// A pending keystroke timer for the removed frame no longer applies.
	next.fields.Cancel(fieldKey{ScheduleID: sc.ID, Day: r.day, FrameID: r.frameID, Side: models.SideStart})
	next.fields.Cancel(fieldKey{ScheduleID: sc.ID, Day: r.day, FrameID: r.frameID, Side: models.SideEnd})
	if r.frameIdx > 0 {
		next.cursor--
	}
	next.clampCursor()
	return next, cmd
}
