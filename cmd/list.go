package cmd

import (
	"fmt"

	"github.com/marcus/hours/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List schedules",
	GroupID: "schedules",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")

		ctx, cancel := commandContext()
		defer cancel()

		schedules, err := newClient().FetchAll(ctx)
		if err != nil {
			return reportError(jsonOut, err)
		}

		if jsonOut {
			views := make([]output.ScheduleView, len(schedules))
			for i, s := range schedules {
				views[i] = output.ViewOf(s)
			}
			return output.JSON(views)
		}

		if len(schedules) == 0 {
			output.Info("No schedules. Create one with: hours create <name>")
			return nil
		}
		for _, s := range schedules {
			fmt.Println(output.FormatScheduleShort(s))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
