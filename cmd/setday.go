package cmd

import (
	"fmt"

	"github.com/marcus/hours/internal/output"
	"github.com/spf13/cobra"
)

var setDayCmd = &cobra.Command{
	Use:   "set-day <schedule> <day> [frame...]",
	Short: "Replace one day's time frames",
	Long: `Replace the time frames of one weekday. Frames are written START-END.

With --off the day is removed from the schedule. With no frames the day gets
the default 9:00 am - 5:00 pm frame.`,
	Example: `  hours set-day Gym sat 8:00am-10:00am
  hours set-day Work fri 9:00am-12:00pm 1:00pm-3:00pm
  hours set-day Gym sun --off`,
	GroupID: "schedules",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		off, _ := cmd.Flags().GetBool("off")

		d, err := parseDay(args[1])
		if err != nil {
			return reportError(jsonOut, err)
		}
		if off && len(args) > 2 {
			return reportError(jsonOut, fmt.Errorf("--off takes no time frames"))
		}

		ctx, cancel := commandContext()
		defer cancel()

		c := newClient()
		s, err := fetchSchedule(ctx, c, args[0])
		if err != nil {
			return reportError(jsonOut, err)
		}

		if off {
			s.Days[d] = nil
		} else {
			day, err := parseFrames(d, args[2:])
			if err != nil {
				return reportError(jsonOut, err)
			}
			s.Days[d] = day
		}
		if err := firstError(s); err != nil {
			return reportError(jsonOut, err)
		}

		if err := c.UpdateDays(ctx, s.ID, s.Availability()); err != nil {
			return reportError(jsonOut, err)
		}

		if jsonOut {
			return output.JSON(output.ViewOf(s))
		}
		if off {
			fmt.Printf("UPDATED %s: %s off\n", s.Name, d)
		} else {
			fmt.Printf("UPDATED %s: %s %s\n", s.Name, d, output.FormatFrames(s.Days[d]))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setDayCmd)
	setDayCmd.Flags().Bool("off", false, "Remove the day from the schedule")
	setDayCmd.Flags().Bool("json", false, "Output as JSON")
}
