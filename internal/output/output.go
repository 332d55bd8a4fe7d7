// Package output provides styled terminal output helpers (success, error,
// warning, schedule formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/hours/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	builtinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound     = "not_found"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTransport    = "transport_error"
	ErrCodeProtected    = "protected"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	data, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
	fmt.Println(string(data))
}

// FrameView is a frame as shown in JSON output.
type FrameView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayView is a weekday as shown in JSON output.
type DayView struct {
	Index  int         `json:"index"`
	Day    string      `json:"day"`
	Frames []FrameView `json:"frames"`
}

// ScheduleView is a schedule as shown in JSON output.
type ScheduleView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Builtin     bool      `json:"builtin"`
	Days        []DayView `json:"days"`
}

// ViewOf flattens a schedule into its JSON view.
func ViewOf(s *models.WeeklySchedule) ScheduleView {
	v := ScheduleView{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Builtin:     s.IsBuiltin(),
		Days:        []DayView{},
	}
	for _, d := range s.ActiveDays() {
		dv := DayView{Index: int(d.Index), Day: d.Index.String(), Frames: make([]FrameView, len(d.Frames))}
		for i, f := range d.Frames {
			dv.Frames[i] = FrameView{Start: f.Start.String(), End: f.End.String()}
		}
		v.Days = append(v.Days, dv)
	}
	return v
}

// FormatFrames joins a day's frames as "9:00 am-5:00 pm, 6:00 pm-7:00 pm"
func FormatFrames(d *models.Day) string {
	parts := make([]string, len(d.Frames))
	for i, f := range d.Frames {
		parts[i] = fmt.Sprintf("%s-%s", f.Start, f.End)
	}
	return strings.Join(parts, ", ")
}

// DaySummary returns the two-letter names of active days, e.g. "Mo Tu We"
func DaySummary(s *models.WeeklySchedule) string {
	var parts []string
	for _, d := range s.ActiveDays() {
		parts = append(parts, d.Index.Short())
	}
	if len(parts) == 0 {
		return "no days"
	}
	return strings.Join(parts, " ")
}

// FormatScheduleShort formats a schedule in one line
func FormatScheduleShort(s *models.WeeklySchedule) string {
	var parts []string
	parts = append(parts, titleStyle.Render(s.Name))
	if s.IsBuiltin() {
		parts = append(parts, builtinStyle.Render("[builtin]"))
	}
	parts = append(parts, dayStyle.Render(DaySummary(s)))
	parts = append(parts, subtleStyle.Render(s.ID))
	return strings.Join(parts, "  ")
}

// FormatScheduleLong formats a schedule with every day and frame
func FormatScheduleLong(s *models.WeeklySchedule) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(s.Name))
	if s.IsBuiltin() {
		sb.WriteString("  " + builtinStyle.Render("[builtin]"))
	}
	sb.WriteString("\n")
	sb.WriteString(subtleStyle.Render("ID: " + s.ID))
	sb.WriteString("\n")

	if s.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(s.Description)
		sb.WriteString("\n")
	}

	sb.WriteString(SectionHeader("Availability"))
	days := s.ActiveDays()
	if len(days) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, d := range days {
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", dayStyle.Render(d.Index.String()), FormatFrames(d)))
	}
	return sb.String()
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nAVAILABILITY:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}
