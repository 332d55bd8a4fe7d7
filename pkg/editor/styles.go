package editor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/hours/internal/syncengine"
)

var (
	// Base colors
	primaryColor   = lipgloss.Color("212")
	secondaryColor = lipgloss.Color("141")
	mutedColor     = lipgloss.Color("241")
	successColor   = lipgloss.Color("42")
	warningColor   = lipgloss.Color("214")
	errorColor     = lipgloss.Color("196")

	// Panel styles
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	confirmPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(errorColor).
				Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	// Text styles
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	dayOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	dayOffStyle = lipgloss.NewStyle().Foreground(mutedColor)
	builtinTag  = lipgloss.NewStyle().Foreground(secondaryColor)
	controlOn   = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255"))

	// Time fields
	fieldStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	fieldFocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Underline(true)
	fieldErrorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	errorTextStyle    = lipgloss.NewStyle().Foreground(errorColor).Italic(true)

	// Status line
	statusStyle      = lipgloss.NewStyle().Foreground(successColor)
	statusErrorStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// syncBadges maps a sync status to the badge shown beside the schedule name.
var syncBadges = map[syncengine.Status]struct {
	text  string
	style lipgloss.Style
}{
	syncengine.PendingDebounce: {"● unsaved", lipgloss.NewStyle().Foreground(warningColor)},
	syncengine.Syncing:         {"↻ saving", lipgloss.NewStyle().Foreground(lipgloss.Color("45"))},
	syncengine.Suppressed:      {"⚠ fix errors to save", lipgloss.NewStyle().Foreground(warningColor)},
	syncengine.Failed:          {"✗ save failed (r to retry)", lipgloss.NewStyle().Foreground(errorColor)},
}

var savedBadge = lipgloss.NewStyle().Foreground(successColor).Render("✓ saved")
