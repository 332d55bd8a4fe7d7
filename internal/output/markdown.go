package output

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/marcus/hours/internal/models"
	"golang.org/x/term"
)

const (
	fallbackWidth = 80
	narrowest     = 20
)

func stdoutFd() int { return int(os.Stdout.Fd()) }

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(stdoutFd())
}

// TerminalWidth reports the stdout terminal width. When stdout is not a
// terminal, $COLUMNS is used, then fallback (or 80 if fallback is not
// positive).
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(stdoutFd()); err == nil && w > 0 {
		return w
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	if fallback > 0 {
		return fallback
	}
	return fallbackWidth
}

// ScheduleMarkdown renders a schedule as a markdown document: a heading,
// the description, and a table with one row per active day.
func ScheduleMarkdown(s *models.WeeklySchedule) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", s.Name)
	if s.IsBuiltin() {
		sb.WriteString("_Built-in schedule_\n\n")
	}
	if s.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", s.Description)
	}
	days := s.ActiveDays()
	if len(days) == 0 {
		sb.WriteString("No days selected.\n")
		return sb.String()
	}
	sb.WriteString("| Day | Time frames |\n|---|---|\n")
	for _, d := range days {
		fmt.Fprintf(&sb, "| %s | %s |\n", d.Index, FormatFrames(d))
	}
	return sb.String()
}

// RenderMarkdown renders text with glamour wrapped to the terminal width.
func RenderMarkdown(text string) (string, error) {
	return RenderMarkdownWithWidth(text, TerminalWidth(fallbackWidth))
}

// RenderMarkdownWithWidth renders text with glamour wrapped at width
// columns (never below 20). Blank input renders as "".
func RenderMarkdownWithWidth(text string, width int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width, narrowest)),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
