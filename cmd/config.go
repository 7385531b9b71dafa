package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/cran/rapportools/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set rapport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		path, _ := cfgpkg.Path(cfgFile)
		fmt.Fprintf(out, "config_file: %s\n", path)
		fmt.Fprintf(out, "total_name: %s\n", c.TotalName)
		fmt.Fprintf(out, "use_labels: %t\n", c.UseLabels)
		fmt.Fprintf(out, "na_remove: %t\n", c.NARemove)
		fmt.Fprintf(out, "margins: %t\n", c.Margins)
		fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		if c.LabelsFile != "" {
			fmt.Fprintf(out, "labels_file: %s\n", c.LabelsFile)
		}
		fmt.Fprintf(out, "batch_jobs: %d\n", c.BatchJobs)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := *currentConfig()
		switch key {
		case "total_name":
			c.TotalName = val
		case "use_labels", "na_remove", "margins":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			switch key {
			case "use_labels":
				c.UseLabels = b
			case "na_remove":
				c.NARemove = b
			default:
				c.Margins = b
			}
		case "output_format":
			c.OutputFormat = val
		case "labels_file":
			c.LabelsFile = val
		case "batch_jobs":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for batch_jobs: %w", err)
			}
			c.BatchJobs = i
		case "log_level":
			c.LogLevel = val
		case "log_format":
			c.LogFormat = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(&c, cfgFile); err != nil {
			return err
		}
		cfg = &c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
