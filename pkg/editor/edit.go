package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/hours/internal/availability"
	"github.com/marcus/hours/internal/debounce"
	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/scheduleclient"
	"github.com/marcus/hours/internal/validate"
)

// rows lists the selectable lines in display order. Only the expanded
// schedule contributes its name, description, days and frames.
func (m Model) rows() []row {
	var rows []row
	for _, sc := range m.state.Schedules {
		rows = append(rows, row{kind: rowHeader, scheduleID: sc.ID})
		if sc.ID != m.expanded {
			continue
		}
		if !sc.IsBuiltin() {
			rows = append(rows, row{kind: rowName, scheduleID: sc.ID})
		}
		rows = append(rows, row{kind: rowDescription, scheduleID: sc.ID})
		for d := models.Monday; d <= models.Sunday; d++ {
			rows = append(rows, row{kind: rowDay, scheduleID: sc.ID, day: d})
			day := sc.Day(d)
			if day == nil {
				continue
			}
			for i, f := range day.Frames {
				rows = append(rows, row{kind: rowFrame, scheduleID: sc.ID, day: d, frameIdx: i, frameID: f.ID})
			}
		}
	}
	return rows
}

func (m Model) currentRow() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.side = models.SideStart
	m.clampCursor()
}

// nextField walks start and end fields on frame rows and whole rows
// elsewhere.
func (m *Model) nextField(dir int) {
	r, ok := m.currentRow()
	if ok && r.kind == rowFrame {
		if dir > 0 && m.side == models.SideStart {
			m.side = models.SideEnd
			return
		}
		if dir < 0 && m.side == models.SideEnd {
			m.side = models.SideStart
			return
		}
	}
	m.cursor += dir
	m.clampCursor()
	if dir < 0 {
		m.side = models.SideEnd
	} else {
		m.side = models.SideStart
	}
}

// focusRow moves the cursor to the first row matching pred.
func (m *Model) focusRow(pred func(row) bool) {
	for i, r := range m.rows() {
		if pred(r) {
			m.cursor = i
			m.scrollToCursor()
			return
		}
	}
	m.clampCursor()
}

// visibleRows is how many list rows fit between the title and the footer.
func (m Model) visibleRows() int {
	if m.Height <= 0 {
		return 0
	}
	n := m.Height - 6
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) scrollToCursor() {
	h := m.visibleRows()
	if h == 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// beginTimeEdit focuses the time input for one side of a frame.
func (m Model) beginTimeEdit(r row, side models.Side) (Model, tea.Cmd) {
	sc := m.state.Find(r.scheduleID)
	if sc == nil {
		return m, nil
	}
	day := sc.Day(r.day)
	if day == nil || r.frameIdx >= len(day.Frames) {
		return m, nil
	}
	f := day.Frames[r.frameIdx]
	m.side = side
	m.editing = editTime
	m.editField = fieldKey{ScheduleID: sc.ID, Day: r.day, FrameID: f.ID, Side: side}
	m.input.SetValue(f.Display(side))
	m.input.Placeholder = "9:00 am"
	m.input.CursorEnd()
	focus := m.input.Focus()
	return m, focus
}

func (m *Model) beginTextEdit(kind editKind, scheduleID, value, placeholder string) {
	m.editing = kind
	m.editID = scheduleID
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
}

func (m *Model) endEdit() {
	m.editing = editNone
	m.editID = ""
	m.editField = fieldKey{}
	m.input.Blur()
	m.input.SetValue("")
}

// typeIntoField feeds a key to the focused input. Time fields restart their
// W1 timer whenever the text changes.
func (m Model) typeIntoField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.editing != editTime || m.input.Value() == before {
		return m, cmd
	}
	key, raw := m.editField, m.input.Value()
	tick := m.fields.Tick(key, func(tok debounce.Token) tea.Msg {
		return fieldDebounceMsg{Key: key, Token: tok, Raw: raw}
	})
	return m, tea.Batch(cmd, tick)
}

// blurTime leaves a time field. Text still waiting on W1 is committed now;
// the row then renders the frame's display text, which is canonical once
// the text parsed.
func (m Model) blurTime() (tea.Model, tea.Cmd) {
	key, raw := m.editField, m.input.Value()
	m.endEdit()
	if !m.fields.Pending(key) {
		return m, nil
	}
	m.fields.Cancel(key)
	return m.commitTime(key, raw)
}

// commitEdit ends the active edit, saving what it holds.
func (m Model) commitEdit() (tea.Model, tea.Cmd) {
	switch m.editing {
	case editTime:
		return m.blurTime()
	case editName:
		return m.commitName()
	case editDescription:
		return m.commitDescription()
	case editNewSchedule:
		name := strings.TrimSpace(m.input.Value())
		if err := validate.ValidateName(name); err != nil {
			m.setError("Name is required")
			return m, nil
		}
		m.endEdit()
		m.setStatus("Creating " + name + "...")
		return m, m.createSchedule(name)
	}
	return m, nil
}

func (m Model) commitName() (tea.Model, tea.Cmd) {
	id := m.editID
	name := strings.TrimSpace(m.input.Value())
	sc := m.state.Find(id)
	if sc == nil {
		m.endEdit()
		return m, nil
	}
	if err := validate.ValidateName(name); err != nil {
		m.setError("Name is required")
		return m, nil
	}
	m.endEdit()
	if name == sc.Name {
		return m, nil
	}
	next, err := availability.Apply(m.state, availability.Rename{ScheduleID: id, Name: name})
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.state = next
	return m, m.saveField(id, "name", scheduleclient.Patch{Name: &name})
}

func (m Model) commitDescription() (tea.Model, tea.Cmd) {
	id := m.editID
	desc := strings.TrimSpace(m.input.Value())
	m.endEdit()
	sc := m.state.Find(id)
	if sc == nil || desc == sc.Description {
		return m, nil
	}
	next, err := availability.Apply(m.state, availability.SetDescription{ScheduleID: id, Text: desc})
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.state = next
	return m, m.saveField(id, "description", scheduleclient.Patch{Description: &desc})
}
