package cmd

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/hours/internal/syncconfig"
	"github.com/marcus/hours/pkg/editor"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:     "edit",
	Aliases: []string{"ui"},
	Short:   "Interactive schedule editor",
	Long: `Open the full-screen schedule editor.

Changes save automatically a few seconds after you stop typing. Invalid times
are flagged inline and never sent to the server.

Key bindings:
  ↑/↓ j/k        Move
  Enter          Expand schedule / edit field
  Space          Toggle day
  + / -          Add or remove a time frame
  n              New schedule
  d              Delete schedule
  r              Retry a failed save
  ctrl+r         Reload from server
  ?              Toggle help
  q              Quit

Logs are written to hours.log in the config directory.`,
	GroupID: "schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		logFile, err := openLogFile()
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
		setupLogging(logFile, slog.LevelInfo)

		model := editor.New(editor.Options{
			Backend:         newClient(),
			BaseDir:         getBaseDir(),
			FieldDebounce:   syncconfig.GetFieldDebounce(),
			CommitDebounce:  syncconfig.GetCommitDebounce(),
			ConfirmDuration: syncconfig.GetConfirmDuration(),
			SoftBound:       syncconfig.GetSoftBound(),
		})
		slog.Info("editor start", "server", syncconfig.GetServerURL(), "version", versionStr)

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running editor: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
