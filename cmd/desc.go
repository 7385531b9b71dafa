package cmd

import (
	"fmt"
	"time"

	"github.com/cran/rapportools/internal/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	descLoad      loadFlags
	descID        []string
	descMeasure   []string
	descFn        []string
	descNARemove  bool
	descMargins   bool
	descTotalName string
	descUseLabels bool
	descLabels    string
	descFormat    string
	descOutput    string
)

var descCmd = &cobra.Command{
	Use:   "desc <file>",
	Short: "Descriptive statistics of numeric variables, optionally grouped with margins",
	Example: `  rapport desc survey.csv --measure age --fn mean,sd,N
  rapport desc survey.csv --measure age,income --id sex,edu --fn median --format csv -o out.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		spec := reportSpec{
			Kind:    kindDesc,
			ID:      splitList(descID),
			Measure: splitList(descMeasure),
			Fn:      splitList(descFn),
		}
		f := cmd.Flags()
		if f.Changed("na-rm") {
			spec.NARemove = &descNARemove
		}
		if f.Changed("margins") {
			spec.Margins = &descMargins
		}
		if f.Changed("use-labels") {
			spec.UseLabels = &descUseLabels
		}
		spec.TotalName = descTotalName
		format := descFormat
		if format == "" {
			format = c.OutputFormat
		}
		return runSingle(cmd, args[0], spec, descLoad, descLabels, format, descOutput)
	},
}

// runSingle loads one dataset, builds one table and writes it.
func runSingle(cmd *cobra.Command, path string, spec reportSpec, lf loadFlags, labelsPath, format, output string) error {
	runID := uuid.NewString()
	log := logging.WithRun(logger, runID)
	start := time.Now()

	d, err := lf.load(path)
	if err != nil {
		return err
	}
	labels, err := loadLabels(labelsPath)
	if err != nil {
		return err
	}
	t, err := spec.build(d, currentConfig(), labels)
	if err != nil {
		return fmt.Errorf("%s: %w", spec.Kind, err)
	}
	data, err := render(t, format)
	if err != nil {
		return err
	}
	log.Debug("report built", "kind", spec.Kind, "rows", len(t.Rows), "elapsed", time.Since(start))
	return emit(cmd.OutOrStdout(), output, data)
}

func init() {
	rootCmd.AddCommand(descCmd)
	addLoadFlags(descCmd, &descLoad)
	descCmd.Flags().StringSliceVarP(&descMeasure, "measure", "m", nil, "numeric variables to summarize (comma-separated, repeatable)")
	descCmd.Flags().StringSliceVar(&descID, "id", nil, "grouping variables (comma-separated, repeatable)")
	descCmd.Flags().StringSliceVar(&descFn, "fn", []string{"mean"}, "summary functions by name, e.g. mean,sd,median,N,IQR")
	descCmd.Flags().BoolVar(&descNARemove, "na-rm", false, "drop missing values before each function (overrides config)")
	descCmd.Flags().BoolVar(&descMargins, "margins", true, "append margin totals for grouped tables (overrides config)")
	descCmd.Flags().StringVar(&descTotalName, "total-name", "", "label of margin rows (overrides config)")
	descCmd.Flags().BoolVar(&descUseLabels, "use-labels", false, "use variable labels in headers (overrides config)")
	descCmd.Flags().StringVar(&descLabels, "labels", "", "YAML file of variable: label pairs")
	descCmd.Flags().StringVar(&descFormat, "format", "", "output format: md|csv|json (default from config)")
	descCmd.Flags().StringVarP(&descOutput, "output", "o", "", "optional path to write the table")
	_ = descCmd.MarkFlagRequired("measure")
}
