package cmd

import (
	"fmt"
	"strings"

	"github.com/marcus/hours/internal/output"
	"github.com/marcus/hours/internal/syncconfig"
	"github.com/spf13/cobra"
)

// maskSecret hides all but the last four characters of an API key.
func maskSecret(key, val string) string {
	if key != "server.api_key" || val == "" {
		return val
	}
	if len(val) <= 4 {
		return strings.Repeat("*", len(val))
	}
	return strings.Repeat("*", len(val)-4) + val[len(val)-4:]
}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage hours configuration",
	Long:    `Settings resolve from the environment first, then ~/.config/hours/config.json, then defaults.`,
	GroupID: "system",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if err := syncconfig.Set(key, val); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("set %s = %s", key, maskSecret(key, val))
		if _, src, _ := syncconfig.Get(key); src == syncconfig.SourceEnv {
			output.Warning("%s is set and overrides this value", syncconfig.EnvName(key))
		}
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a config value, restoring its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := syncconfig.Set(args[0], ""); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("unset %s", args[0])
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		val, _, err := syncconfig.Get(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Println(maskSecret(args[0], val))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values and where they come from",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")

		type entry struct {
			Key    string `json:"key"`
			Value  string `json:"value"`
			Source string `json:"source"`
			Env    string `json:"env"`
		}
		var entries []entry
		for _, key := range syncconfig.Keys() {
			val, src, err := syncconfig.Get(key)
			if err != nil {
				return err
			}
			entries = append(entries, entry{Key: key, Value: maskSecret(key, val), Source: string(src), Env: syncconfig.EnvName(key)})
		}

		if jsonOut {
			return output.JSON(entries)
		}
		for _, e := range entries {
			fmt.Printf("%-24s %-24s (%s, %s)\n", e.Key, e.Value, e.Source, e.Env)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configUnsetCmd, configGetCmd, configListCmd)
	configListCmd.Flags().Bool("json", false, "Output as JSON")
}
