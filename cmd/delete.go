package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/marcus/hours/internal/output"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <schedule>",
	Aliases: []string{"rm"},
	Short:   "Delete a schedule",
	GroupID: "schedules",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		yes, _ := cmd.Flags().GetBool("yes")

		ctx, cancel := commandContext()
		c := newClient()
		s, err := fetchSchedule(ctx, c, args[0])
		cancel()
		if err != nil {
			return reportError(jsonOut, err)
		}
		if s.IsBuiltin() {
			return reportError(jsonOut, fmt.Errorf("cannot delete %s: %w", s.Name, errProtected))
		}

		if !yes {
			if jsonOut || !output.IsTerminal() {
				return reportError(jsonOut, fmt.Errorf("refusing to delete %s without --yes", s.Name))
			}
			var confirmed bool
			prompt := huh.NewConfirm().
				Title(fmt.Sprintf("Delete schedule %q?", s.Name)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed)
			if err := huh.NewForm(huh.NewGroup(prompt)).WithTheme(huh.ThemeDracula()).Run(); err != nil {
				return err
			}
			if !confirmed {
				output.Info("Cancelled")
				return nil
			}
		}

		// The prompt may have outlived the lookup's deadline.
		ctx, cancel = commandContext()
		defer cancel()
		if err := c.Delete(ctx, s.ID); err != nil {
			return reportError(jsonOut, err)
		}
		if jsonOut {
			return output.JSON(map[string]string{"deleted": s.ID})
		}
		fmt.Printf("DELETED %s %s\n", s.ID, s.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	deleteCmd.Flags().Bool("json", false, "Output as JSON")
}
