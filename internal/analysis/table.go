package analysis

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags what produced a Table.
type Kind string

const (
	KindDescriptive Kind = "descriptive"
	KindFrequency   Kind = "frequency"
)

// Cell is one value of a result row: text, a number, or missing.
type Cell struct {
	Text  string  `json:"text,omitempty"`
	Num   float64 `json:"num,omitempty"`
	IsNum bool    `json:"is_num,omitempty"`
	NA    bool    `json:"na,omitempty"`
}

// Str is a text cell.
func Str(s string) Cell { return Cell{Text: s} }

// Num is a numeric cell; NaN becomes a missing cell.
func Num(v float64) Cell {
	if math.IsNaN(v) {
		return NA()
	}
	return Cell{Num: v, IsNum: true}
}

// NA is a missing cell.
func NA() Cell { return Cell{NA: true} }

func (c Cell) String() string {
	switch {
	case c.NA:
		return naLabel
	case c.IsNum:
		return formatNumber(c.Num)
	default:
		return c.Text
	}
}

// formatNumber writes v in fixed notation with at most four decimals and no
// trailing zeros. Magnitudes too small for four decimals keep four
// significant digits.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.Abs(v) < 1e-4 {
		return strconv.FormatFloat(v, 'g', 4, 64)
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Table is a result table: column names and rows aligned to them.
type Table struct {
	Kind    Kind     `json:"kind"`
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// Col returns the index of the named column, or -1.
func (t *Table) Col(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column, or nil when absent.
func (t *Table) Column(name string) []Cell {
	i := t.Col(name)
	if i < 0 {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}
