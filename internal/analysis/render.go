package analysis

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Markdown renders the table as a pipe table under a short header.
func (t *Table) Markdown() string {
	var b strings.Builder
	switch t.Kind {
	case KindFrequency:
		b.WriteString("[FREQUENCY TABLE]\n")
	default:
		b.WriteString("[DESCRIPTIVE STATISTICS]\n")
	}
	b.WriteString("| ")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(c))
	}
	b.WriteString(" |\n| ")
	for i := range t.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range t.Rows {
		b.WriteString("| ")
		for i, c := range row {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(t.formatCell(i, c)))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// WriteCSV writes a header line followed by one record per row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range row {
			rec[i] = t.formatCell(i, c)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON marshals the table with indentation.
func (t *Table) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal table: %w", err)
	}
	return b, nil
}

// formatCell renders the cell in column i. Percent columns of a frequency
// table keep two decimals.
func (t *Table) formatCell(i int, c Cell) string {
	if c.IsNum && !c.NA && t.Kind == KindFrequency && isPctColumn(t.Columns[i]) {
		return strconv.FormatFloat(c.Num, 'f', 2, 64)
	}
	return c.String()
}

func isPctColumn(name string) bool { return name == ColPct || name == ColCumulPct }

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
