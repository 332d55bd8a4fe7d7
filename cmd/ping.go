package cmd

import (
	"time"

	"github.com/marcus/hours/internal/output"
	"github.com/marcus/hours/internal/syncconfig"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:     "ping",
	Short:   "Check that the schedule server is reachable",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		start := time.Now()
		health, err := newClient().HealthCheck(ctx)
		if err != nil {
			return reportError(false, err)
		}
		output.Success("%s: %s (%s)", syncconfig.GetServerURL(), health.Status, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
