package cmd

import (
	"fmt"

	"github.com/marcus/hours/internal/output"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <schedule>",
	Short:   "Show one schedule's days and time frames",
	Long:    `Show a schedule by ID or name. Output is rendered as markdown on a terminal.`,
	GroupID: "schedules",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		ctx, cancel := commandContext()
		defer cancel()

		s, err := fetchSchedule(ctx, newClient(), args[0])
		if err != nil {
			return reportError(jsonOut, err)
		}

		if jsonOut {
			return output.JSON(output.ViewOf(s))
		}
		if plain || !output.IsTerminal() {
			fmt.Print(output.FormatScheduleLong(s))
			return nil
		}
		rendered, err := output.RenderMarkdown(output.ScheduleMarkdown(s))
		if err != nil {
			// fall back to plain text
			fmt.Print(output.FormatScheduleLong(s))
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("json", false, "Output as JSON")
	showCmd.Flags().Bool("plain", false, "Plain text, no markdown rendering")
}
