package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcus/hours/internal/syncconfig"
	"github.com/spf13/cobra"
)

var (
	versionStr string
	baseDir    string
	debugFlag  bool
)

// SetVersion records the build version for --version.
func SetVersion(v string) {
	versionStr = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "hours",
	Short: "Weekly availability schedules",
	Long: `hours - Edit the weekly availability schedules stored on a scheduling-hours server.

Run "hours edit" for the interactive editor, or use the subcommands below to
inspect and change schedules from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// The editor owns the terminal and logs to a file instead.
		if cmd.Name() != editCmd.Name() {
			setupLogging(os.Stderr, slog.LevelWarn)
		}
	},
}

// Execute runs the CLI and exits non-zero on error. Commands report their
// own errors, so cobra's are silenced.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)

	rootCmd.AddGroup(
		&cobra.Group{ID: "schedules", Title: "Schedule Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
	rootCmd.SetVersionTemplate("hours {{.Version}}\n")

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Verbose logging (also HOURS_DEBUG=1)")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hours: working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the directory holding .hours/ editor state
func getBaseDir() string {
	return baseDir
}

func debugEnabled() bool {
	if debugFlag {
		return true
	}
	v := os.Getenv("HOURS_DEBUG")
	return v == "1" || strings.EqualFold(v, "true")
}

// setupLogging installs a text slog handler on w. --debug or HOURS_DEBUG
// lowers the level to debug.
func setupLogging(w io.Writer, level slog.Level) {
	if debugEnabled() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// openLogFile opens hours.log in the config directory for append.
func openLogFile() (*os.File, error) {
	dir, err := syncconfig.ConfigDir()
	if err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "hours.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
