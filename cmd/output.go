package cmd

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cran/rapportools/internal/analysis"
	"github.com/cran/rapportools/internal/dataset"
	"github.com/cran/rapportools/internal/parser"
	"github.com/cran/rapportools/internal/utils"
	"github.com/spf13/cobra"
)

// loadFlags holds the dataset reading flags shared by desc, freq and batch.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	maxRows    int
	factors    []string
	naStrings  []string
}

func addLoadFlags(c *cobra.Command, lf *loadFlags) {
	c.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
	c.Flags().StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
	c.Flags().StringSliceVar(&lf.factors, "factor", nil, "columns to read as categorical even when numeric (repeatable)")
	c.Flags().StringSliceVar(&lf.naStrings, "na-strings", nil, "cell values read as missing (default \"\",NA,N/A,null,NULL)")
}

func (lf loadFlags) options() (parser.Options, error) {
	opt := parser.DefaultOptions()
	switch lf.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(lf.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", lf.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(lf.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", lf.thousands)
	}
	opt.SheetName = lf.sheetName
	opt.SheetIndex = lf.sheetIndex
	opt.MaxRows = lf.maxRows
	opt.Factors = splitList(lf.factors)
	if len(lf.naStrings) > 0 {
		opt.NAStrings = lf.naStrings
	}
	return opt, nil
}

func (lf loadFlags) load(path string) (*dataset.Dataset, error) {
	opt, err := lf.options()
	if err != nil {
		return nil, err
	}
	d, err := parser.LoadFile(path, opt)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", "file", filepath.Base(path), "rows", d.Len(), "columns", len(d.Names()))
	return d, nil
}

// loadLabels reads the labels file given by flag, falling back to config.
func loadLabels(path string) (analysis.Labeler, error) {
	if path == "" {
		path = currentConfig().LabelsFile
	}
	if path == "" {
		return nil, nil
	}
	l, err := analysis.LoadLabels(path)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// render formats a table as md, csv or json.
func render(t *analysis.Table, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "md", "markdown":
		return []byte(t.Markdown()), nil
	case "csv":
		var buf bytes.Buffer
		if err := t.WriteCSV(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "json":
		return t.JSON()
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use md|csv|json)", format)
	}
}

func formatExt(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return ".csv"
	case "json":
		return ".json"
	default:
		return ".md"
	}
}

// emit writes data to path, or to out when path is empty.
func emit(out io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := out.Write(data)
		return err
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(out, "✓ Wrote table to %s\n", path)
	return nil
}
