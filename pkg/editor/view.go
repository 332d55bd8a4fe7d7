package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/syncengine"
	"github.com/marcus/hours/internal/timeofday"
	"github.com/marcus/hours/internal/validate"
	"github.com/marcus/hours/pkg/editor/keymap"
)

// View implements tea.Model
func (m Model) View() string {
	if m.HelpOpen {
		return m.renderHelp()
	}

	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render("HOURS") + " " + subtleStyle.Render("weekly availability"))
	sb.WriteString("\n\n")

	switch {
	case m.Loading && len(m.state.Schedules) == 0:
		sb.WriteString(subtleStyle.Render("Loading schedules..."))
		sb.WriteString("\n")
	case m.LoadErr != nil && len(m.state.Schedules) == 0:
		sb.WriteString(errorTextStyle.Render("Could not reach the schedule server. ctrl+r to retry."))
		sb.WriteString("\n")
	case len(m.state.Schedules) == 0:
		sb.WriteString(subtleStyle.Render("No schedules yet. Press n to create one."))
		sb.WriteString("\n")
	default:
		lines := m.renderRows()
		start, end := 0, len(lines)
		if h := m.visibleRows(); h > 0 {
			start = min(m.offset, len(lines))
			end = min(start+h, len(lines))
		}
		for _, line := range lines[start:end] {
			sb.WriteString(m.truncate(line))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) truncate(line string) string {
	if m.Width <= 0 {
		return line
	}
	return ansi.Truncate(line, m.Width, "…")
}

// renderRows renders one line per row, aligned with rows().
func (m Model) renderRows() []string {
	rows := m.rows()
	lines := make([]string, len(rows))
	errsBySchedule := make(map[string]validate.Errors)
	for i, r := range rows {
		sc := m.state.Find(r.scheduleID)
		if sc == nil {
			continue
		}
		errs, ok := errsBySchedule[sc.ID]
		if !ok {
			errs = validate.ScheduleErrors(sc)
			errsBySchedule[sc.ID] = errs
		}
		selected := i == m.cursor
		var line string
		switch r.kind {
		case rowHeader:
			line = m.renderHeader(sc, selected)
		case rowName:
			line = m.renderTextRow("Name", sc.Name, editName, sc.ID, selected)
		case rowDescription:
			line = m.renderTextRow("Description", sc.Description, editDescription, sc.ID, selected)
		case rowDay:
			line = m.renderDay(sc, r.day, selected)
		case rowFrame:
			line = m.renderFrame(sc, r, errs, selected)
		}
		lines[i] = line
	}
	return lines
}

func (m Model) renderHeader(sc *models.WeeklySchedule, selected bool) string {
	arrow := "▸"
	if sc.ID == m.expanded {
		arrow = "▾"
	}
	name := sc.Name
	if selected {
		name = selectedRowStyle.Render(" " + name + " ")
	} else {
		name = titleStyle.Render(" " + name + " ")
	}
	parts := []string{arrow + name}
	if sc.IsBuiltin() {
		parts = append(parts, builtinTag.Render("built-in"))
	}
	if sc.ID != m.expanded {
		parts = append(parts, subtleStyle.Render(summarize(sc)))
	}
	if badge := m.syncBadge(sc.ID); badge != "" {
		parts = append(parts, badge)
	}
	return strings.Join(parts, " ")
}

// syncBadge returns the rendered sync state of a schedule, or "" when idle
// with nothing to report.
func (m Model) syncBadge(id string) string {
	status := m.engine.Status(id)
	if b, ok := syncBadges[status]; ok {
		return b.style.Render(b.text)
	}
	if status == syncengine.Idle && m.confirms.Pending(id) {
		return savedBadge
	}
	return ""
}

// summarize lists active days for a collapsed schedule, e.g. "Mo Tu We".
func summarize(sc *models.WeeklySchedule) string {
	days := sc.ActiveDays()
	if len(days) == 0 {
		return "no days"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.Index.Short()
	}
	return strings.Join(names, " ")
}

func (m Model) renderTextRow(label, value string, kind editKind, id string, selected bool) string {
	text := value
	if m.editing == kind && m.editID == id {
		text = m.input.View()
	} else if text == "" {
		text = subtleStyle.Render("(none)")
	}
	prefix := "    " + labelStyle.Render(fmt.Sprintf("%-12s", label))
	if selected && m.editing == editNone {
		return prefix + selectedRowStyle.Render(" "+value+" ")
	}
	return prefix + " " + text
}

func (m Model) renderDay(sc *models.WeeklySchedule, d models.DayIndex, selected bool) string {
	mark, style := "[ ]", dayOffStyle
	if sc.Day(d) != nil {
		mark, style = "[x]", dayOnStyle
	}
	text := mark + " " + d.String()
	if selected {
		return "    " + selectedRowStyle.Render(text)
	}
	return "    " + style.Render(text)
}

func (m Model) renderFrame(sc *models.WeeklySchedule, r row, errs validate.Errors, selected bool) string {
	day := sc.Day(r.day)
	if day == nil || r.frameIdx >= len(day.Frames) {
		return ""
	}
	f := day.Frames[r.frameIdx]

	start := m.renderField(sc.ID, r, f, models.SideStart, errs, selected)
	end := m.renderField(sc.ID, r, f, models.SideEnd, errs, selected)

	var controls []string
	if validate.CanAddAfter(day, r.frameIdx, m.softBound) {
		controls = append(controls, controlOn.Render("+"))
	}
	if validate.CanRemove(day) {
		controls = append(controls, controlOn.Render("−"))
	}

	line := "        " + start + subtleStyle.Render(" – ") + end
	if len(controls) > 0 {
		line += "  " + strings.Join(controls, " ")
	}

	var msgs []string
	if err := errs.For(r.day, f.ID, models.SideStart); err != nil {
		msgs = append(msgs, fieldMessage(err))
	}
	if err := errs.For(r.day, f.ID, models.SideEnd); err != nil {
		msgs = append(msgs, fieldMessage(err))
	}
	if len(msgs) > 0 {
		line += "  " + errorTextStyle.Render(strings.Join(msgs, "; "))
	}
	return line
}

func (m Model) renderField(id string, r row, f models.TimeFrame, side models.Side, errs validate.Errors, selected bool) string {
	key := fieldKey{ScheduleID: id, Day: r.day, FrameID: f.ID, Side: side}
	if m.editing == editTime && m.editField == key {
		return fieldFocusedStyle.Render(fmt.Sprintf("%-8s", m.input.Value()))
	}
	text := fmt.Sprintf("%-8s", f.Display(side))
	switch {
	case selected && m.side == side:
		return selectedRowStyle.Render(text)
	case errs.For(r.day, f.ID, side) != nil:
		return fieldErrorStyle.Render(text)
	default:
		return fieldStyle.Render(text)
	}
}

// fieldMessage is the inline text shown under a failing time field.
func fieldMessage(err error) string {
	if errors.Is(err, timeofday.ErrFormat) {
		return "Invalid time"
	}
	return err.Error()
}

func (m Model) renderFooter() string {
	var lines []string
	if m.confirmDelete != "" {
		prompt := fmt.Sprintf("Delete schedule %q? y to confirm, n to cancel", m.scheduleName(m.confirmDelete))
		lines = append(lines, confirmPanelStyle.Render(prompt))
	}
	if m.editing == editNewSchedule {
		lines = append(lines, panelStyle.Render("New schedule: "+m.input.View()))
	}
	if m.StatusMessage != "" {
		if m.StatusIsError {
			lines = append(lines, statusErrorStyle.Render(m.StatusMessage))
		} else {
			lines = append(lines, statusStyle.Render(m.StatusMessage))
		}
	}
	lines = append(lines, m.truncate(helpStyle.Render(m.footerHints())))
	return strings.Join(lines, "\n")
}

func (m Model) footerHints() string {
	switch m.currentContext() {
	case keymap.ContextEditing:
		return "enter/esc leave field · tab next field · ctrl+c quit"
	case keymap.ContextConfirm:
		return "y confirm · n cancel"
	}
	return "enter open/edit · space day · a add · x remove · n new · D delete · r retry · ? help · q quit"
}

func (m Model) renderHelp() string {
	return panelStyle.Render(m.Keymap.GenerateHelp() + "\n" + helpStyle.Render("? or esc to close"))
}
