package cmd

import (
	"fmt"
	"strings"

	"github.com/marcus/hours/internal/output"
	"github.com/marcus/hours/internal/scheduleclient"
	"github.com/marcus/hours/internal/validate"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update <schedule>",
	Aliases: []string{"rename"},
	Short:   "Change a schedule's name or description",
	Example: `  hours update Gym --name "Gym mornings"
  hours update Gym --description ""`,
	GroupID: "schedules",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")

		var patch scheduleclient.Patch
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			name = strings.TrimSpace(name)
			if err := validate.ValidateName(name); err != nil {
				return reportError(jsonOut, err)
			}
			patch.Name = &name
		}
		if cmd.Flags().Changed("description") {
			desc, _ := cmd.Flags().GetString("description")
			desc = strings.TrimSpace(desc)
			patch.Description = &desc
		}
		if patch.Name == nil && patch.Description == nil {
			return reportError(jsonOut, fmt.Errorf("nothing to update; pass --name or --description"))
		}

		ctx, cancel := commandContext()
		defer cancel()

		c := newClient()
		s, err := fetchSchedule(ctx, c, args[0])
		if err != nil {
			return reportError(jsonOut, err)
		}
		if patch.Name != nil && *patch.Name != s.Name && s.IsBuiltin() {
			return reportError(jsonOut, fmt.Errorf("cannot rename %s: %w", s.Name, errProtected))
		}

		if err := c.Update(ctx, s.ID, patch); err != nil {
			return reportError(jsonOut, err)
		}
		if patch.Name != nil {
			s.Name = *patch.Name
		}
		if patch.Description != nil {
			s.Description = *patch.Description
		}

		if jsonOut {
			return output.JSON(output.ViewOf(s))
		}
		fmt.Printf("UPDATED %s %s\n", s.ID, s.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().String("name", "", "New name")
	updateCmd.Flags().StringP("description", "d", "", "New description (empty clears it)")
	updateCmd.Flags().Bool("json", false, "Output as JSON")
}
