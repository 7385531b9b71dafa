package analysis

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cran/rapportools/internal/dataset"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{
		Kind:    KindDescriptive,
		Columns: []string{"g", "mean"},
		Rows: [][]Cell{
			{Str("x"), Num(2)},
			{Str("a|b"), Num(14.0 / 3)},
			{Str("Total"), NA()},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := sampleTable().Markdown()
	require.True(t, strings.HasPrefix(md, "[DESCRIPTIVE STATISTICS]\n"), md)
	require.Contains(t, md, "| g | mean |\n| --- | --- |\n")
	require.Contains(t, md, "| x | 2 |")
	require.Contains(t, md, "| a/b | 4.6667 |")
	require.Contains(t, md, "| Total | NA |")
}

func TestWriteCSVAndJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleTable().WriteCSV(&buf))
	require.Equal(t, "g,mean\nx,2\na|b,4.6667\nTotal,NA\n", buf.String())

	b, err := sampleTable().JSON()
	require.NoError(t, err)
	var back Table
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, KindDescriptive, back.Kind)
	require.True(t, back.Rows[2][1].NA)
}

func TestNumberFormatting(t *testing.T) {
	require.Equal(t, "52345.5", Num(52345.5).String())
	require.Equal(t, "1234567", Num(1234567).String())
	require.Equal(t, "0.125", Num(0.125).String())
	require.Equal(t, "-2.5", Num(-2.5).String())
	require.Equal(t, "1.5e-05", Num(0.000015).String())
	require.Equal(t, "0", Num(0).String())

	d := mustDataset(t,
		cat("g", "x", "x"),
		dataset.NewNumeric("income", []float64{52345, 52346}),
	)
	opt := DefaultDescOptions()
	opt.Margins = false
	tbl, err := Describe(d, dataset.Names("g"), dataset.Names("income"), FuncNames("mean"), opt)
	require.NoError(t, err)
	require.Contains(t, tbl.Markdown(), "| x | 52345.5 |")
}

func TestFrequencyPercentCells(t *testing.T) {
	vals := make([]string, 30)
	for i := range vals {
		vals[i] = "b"
	}
	vals[0] = "a"
	d := mustDataset(t, cat("f", vals...))
	tbl, err := Frequency(d, dataset.Names("f"), DefaultFreqOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	require.Equal(t, "f,N,%,Cumul. N,Cumul. %\na,1,3.33,1,3.33\nb,29,96.67,30,100.00\nTotal,30,100.00,30,100.00\n", buf.String())
	require.Contains(t, tbl.Markdown(), "| a | 1 | 3.33 | 1 | 3.33 |")
}

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("age: Age in years\nsex: Gender\n"), 0o644))
	l, err := LoadLabels(path)
	require.NoError(t, err)
	got, ok := l.Label("age")
	require.True(t, ok)
	require.Equal(t, "Age in years", got)
	require.Equal(t, "edu", labelFor(true, l, "edu"))
	require.Equal(t, "sex", labelFor(false, l, "sex"))
}
