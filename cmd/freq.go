package cmd

import (
	"github.com/spf13/cobra"
)

var (
	freqLoad       loadFlags
	freqVars       []string
	freqNARemove   bool
	freqIncludeNA  bool
	freqDropUnused bool
	freqReorder    bool
	freqCount      bool
	freqPct        bool
	freqCumulCount bool
	freqCumulPct   bool
	freqTotalName  string
	freqUseLabels  bool
	freqLabels     string
	freqFormat     string
	freqOutput     string
)

var freqCmd = &cobra.Command{
	Use:   "freq <file>",
	Short: "Frequency table or cross-tabulation of categorical variables",
	Example: `  rapport freq survey.csv --vars sex
  rapport freq survey.csv --vars sex,edu --na-rm=false --include-na --drop-unused`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := reportSpec{Kind: kindFreq, Vars: splitList(freqVars), TotalName: freqTotalName}
		f := cmd.Flags()
		for name, dst := range map[string]**bool{
			"na-rm":       &spec.NARemove,
			"include-na":  &spec.IncludeNA,
			"drop-unused": &spec.DropUnused,
			"reorder":     &spec.Reorder,
			"count":       &spec.Count,
			"pct":         &spec.Pct,
			"cumul-count": &spec.CumulCount,
			"cumul-pct":   &spec.CumulPct,
			"use-labels":  &spec.UseLabels,
		} {
			if f.Changed(name) {
				v, err := f.GetBool(name)
				if err != nil {
					return err
				}
				*dst = &v
			}
		}
		format := freqFormat
		if format == "" {
			format = currentConfig().OutputFormat
		}
		return runSingle(cmd, args[0], spec, freqLoad, freqLabels, format, freqOutput)
	},
}

func init() {
	rootCmd.AddCommand(freqCmd)
	addLoadFlags(freqCmd, &freqLoad)
	freqCmd.Flags().StringSliceVarP(&freqVars, "vars", "v", nil, "categorical variables to tabulate (comma-separated, repeatable)")
	freqCmd.Flags().BoolVar(&freqNARemove, "na-rm", true, "drop rows with a missing value before tabulating")
	freqCmd.Flags().BoolVar(&freqIncludeNA, "include-na", false, "show missing-value rows when --na-rm=false")
	freqCmd.Flags().BoolVar(&freqDropUnused, "drop-unused", false, "drop level combinations with zero count")
	freqCmd.Flags().BoolVar(&freqReorder, "reorder", false, "sort rows by ascending count")
	freqCmd.Flags().BoolVar(&freqCount, "count", true, "include the N column")
	freqCmd.Flags().BoolVar(&freqPct, "pct", true, "include the % column")
	freqCmd.Flags().BoolVar(&freqCumulCount, "cumul-count", true, "include the Cumul. N column")
	freqCmd.Flags().BoolVar(&freqCumulPct, "cumul-pct", true, "include the Cumul. % column")
	freqCmd.Flags().StringVar(&freqTotalName, "total-name", "", "label of the total row (overrides config)")
	freqCmd.Flags().BoolVar(&freqUseLabels, "use-labels", false, "use variable labels in headers (overrides config)")
	freqCmd.Flags().StringVar(&freqLabels, "labels", "", "YAML file of variable: label pairs")
	freqCmd.Flags().StringVar(&freqFormat, "format", "", "output format: md|csv|json (default from config)")
	freqCmd.Flags().StringVarP(&freqOutput, "output", "o", "", "optional path to write the table")
	_ = freqCmd.MarkFlagRequired("vars")
}
