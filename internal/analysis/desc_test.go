package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/cran/rapportools/internal/dataset"
	"github.com/stretchr/testify/require"
)

func mustDataset(t *testing.T, cols ...*dataset.Column) *dataset.Dataset {
	t.Helper()
	d, err := dataset.New(cols...)
	require.NoError(t, err)
	return d
}

func cat(name string, vals ...string) *dataset.Column {
	missing := make([]bool, len(vals))
	for i, v := range vals {
		missing[i] = v == naLabel
	}
	return dataset.NewCategorical(name, vals, missing)
}

func texts(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}

func nums(cells []Cell) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		if c.NA {
			out[i] = math.NaN()
			continue
		}
		out[i] = c.Num
	}
	return out
}

func TestDescribePooledMarginMean(t *testing.T) {
	d := mustDataset(t,
		cat("g", "x", "x", "y"),
		dataset.NewNumeric("v", []float64{1, 3, 10}),
	)
	tbl, err := Describe(d, dataset.Names("g"), dataset.Names("v"), SingleFunc(Mean), DefaultDescOptions())
	require.NoError(t, err)
	require.Equal(t, KindDescriptive, tbl.Kind)
	require.Equal(t, []string{"g", "mean"}, tbl.Columns)
	require.Equal(t, []string{"x", "y", "Total"}, texts(tbl.Column("g")))
	got := nums(tbl.Column("mean"))
	require.Equal(t, 2.0, got[0])
	require.Equal(t, 10.0, got[1])
	require.InDelta(t, 14.0/3, got[2], 1e-9)
}

func TestDescribeMarginRowsAndAdditivity(t *testing.T) {
	d := mustDataset(t,
		cat("g", "b", "a", "c", "a", "b", "b"),
		dataset.NewNumeric("v", []float64{1, 2, 3, 4, 5, 6}),
	)
	tbl, err := Describe(d, dataset.Names("g"), dataset.Names("v"), FuncNames("sum", "length", "mean"), DefaultDescOptions())
	require.NoError(t, err)
	// k = 3 observed levels in first-appearance order, plus the total
	require.Len(t, tbl.Rows, 4)
	require.Equal(t, []string{"b", "a", "c", "Total"}, texts(tbl.Column("g")))

	sums := nums(tbl.Column("sum"))
	require.Equal(t, sums[0]+sums[1]+sums[2], sums[3])
	lens := nums(tbl.Column("length"))
	require.Equal(t, 6.0, lens[3])
	require.Equal(t, Mean([]float64{1, 2, 3, 4, 5, 6}), nums(tbl.Column("mean"))[3])
}

func TestDescribeWithoutMargins(t *testing.T) {
	d := mustDataset(t, cat("g", "x", "y"), dataset.NewNumeric("v", []float64{1, 2}))
	opt := DefaultDescOptions()
	opt.Margins = false
	tbl, err := Describe(d, dataset.Names("g"), dataset.Names("v"), SingleFunc(Sum), opt)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, texts(tbl.Column("g")))
}

func TestDescribeTwoDimensionMargins(t *testing.T) {
	d := mustDataset(t,
		cat("sex", "m", "m", "f", "f", "m"),
		cat("grp", "a", "b", "a", "a", "a"),
		dataset.NewNumeric("v", []float64{1, 2, 3, 4, 5}),
	)
	opt := DefaultDescOptions()
	opt.TotalName = "All"
	tbl, err := Describe(d, dataset.Names("sex", "grp"), dataset.Names("v"), FuncNames("sum", "N"), opt)
	require.NoError(t, err)
	require.Equal(t, []string{"sex", "grp", "sum", "N"}, tbl.Columns)

	type row struct {
		sex, grp string
		sum, n   float64
	}
	var got []row
	for _, r := range tbl.Rows {
		got = append(got, row{r[0].Text, r[1].Text, r[2].Num, r[3].Num})
	}
	require.Equal(t, []row{
		{"m", "a", 6, 2},
		{"m", "b", 2, 1},
		{"m", "All", 8, 3},
		{"f", "a", 7, 2},
		{"f", "All", 7, 2},
		{"All", "a", 13, 4},
		{"All", "b", 2, 1},
		{"All", "All", 15, 5},
	}, got)
}

func TestDescribeNAHandling(t *testing.T) {
	d := mustDataset(t,
		cat("g", "x", "x", "y"),
		dataset.NewNumeric("v", []float64{1, math.NaN(), 4}),
	)
	tbl, err := Describe(d, dataset.Names("g"), dataset.Names("v"), FuncNames("mean", "valid"), DefaultDescOptions())
	require.NoError(t, err)
	means := tbl.Column("mean")
	require.True(t, means[0].NA)
	require.Equal(t, 4.0, means[1].Num)
	require.True(t, means[2].NA)
	require.Equal(t, []float64{1, 1, 2}, nums(tbl.Column("valid")))

	opt := DefaultDescOptions()
	opt.NARemove = true
	tbl, err = Describe(d, dataset.Names("g"), dataset.Names("v"), FuncNames("mean"), opt)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 4, 2.5}, nums(tbl.Column("mean")))
}

func TestDescribeMissingIDLevel(t *testing.T) {
	d := mustDataset(t,
		cat("g", "x", "NA", "x"),
		dataset.NewNumeric("v", []float64{1, 2, 3}),
	)
	tbl, err := Describe(d, dataset.Names("g"), dataset.Names("v"), FuncNames("sum"), DefaultDescOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"x", "NA", "Total"}, texts(tbl.Column("g")))
	require.Equal(t, []float64{4, 2, 6}, nums(tbl.Column("sum")))
}

func TestDescribeUngrouped(t *testing.T) {
	d := mustDataset(t,
		dataset.NewNumeric("age", []float64{20, 30, 40}),
		dataset.NewNumeric("edu", []float64{1, 2, math.NaN()}),
	)
	tbl, err := Describe(d, nil, dataset.Names("age"), Funcs(Fn(Mean), Fn(Max)), DefaultDescOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"mean", "max"}, tbl.Columns)
	require.Equal(t, [][]Cell{{Num(30), Num(40)}}, tbl.Rows)

	opt := DefaultDescOptions()
	opt.NARemove = true
	opt.UseLabels = true
	opt.Labels = MapLabels{"age": "Age (years)"}
	tbl, err = Describe(d, nil, dataset.Names("age", "edu"), FuncNames("mean"), opt)
	require.NoError(t, err)
	require.Equal(t, []string{"Variable", "mean"}, tbl.Columns)
	require.Equal(t, []string{"Age (years)", "edu"}, texts(tbl.Column("Variable")))
	require.Equal(t, []float64{30, 1.5}, nums(tbl.Column("mean")))
}

func TestDescribeMultipleMeasuresGrouped(t *testing.T) {
	d := mustDataset(t,
		cat("g", "x", "y"),
		dataset.NewNumeric("a", []float64{1, 2}),
		dataset.NewNumeric("b", []float64{3, 4}),
	)
	opt := DefaultDescOptions()
	opt.UseLabels = true
	opt.Labels = MapLabels{"g": "Group"}
	tbl, err := Describe(d, dataset.Names("g"), dataset.Names("a", "b"), FuncNames("sum"), opt)
	require.NoError(t, err)
	require.Equal(t, []string{"Group", "a_sum", "b_sum"}, tbl.Columns)
	require.Equal(t, []float64{1, 2, 3}, nums(tbl.Column("a_sum")))
	require.Equal(t, []float64{3, 4, 7}, nums(tbl.Column("b_sum")))
}

func TestDescribeLiteralVariables(t *testing.T) {
	g := cat("grp", "a", "b", "a")
	v := dataset.NewNumeric("val", []float64{1, 2, 3})
	tbl, err := Describe(nil, []dataset.Ref{dataset.Literal(g)}, []dataset.Ref{dataset.Literal(v)}, SingleFunc(Sum), DefaultDescOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"grp", "sum"}, tbl.Columns)
	require.Equal(t, []float64{4, 2, 6}, nums(tbl.Column("sum")))
}

func TestDescribeErrors(t *testing.T) {
	d := mustDataset(t,
		cat("g", "x", "y"),
		dataset.NewNumeric("v", []float64{math.NaN(), math.NaN()}),
	)

	_, err := Describe(d, nil, dataset.Names("v"), FuncNames("nope"), DefaultDescOptions())
	require.True(t, errors.Is(err, ErrUnknownFunctionSpec), "err = %v", err)

	_, err = Describe(d, dataset.Names("missing"), dataset.Names("v"), FuncNames("mean"), DefaultDescOptions())
	require.True(t, errors.Is(err, ErrInvalidVariable), "err = %v", err)

	_, err = Describe(d, nil, dataset.Names("g"), FuncNames("mean"), DefaultDescOptions())
	require.True(t, errors.Is(err, ErrTypeMismatch), "err = %v", err)

	opt := DefaultDescOptions()
	opt.NARemove = true
	_, err = Describe(d, nil, dataset.Names("v"), FuncNames("mean"), opt)
	require.True(t, errors.Is(err, ErrEmptyInput), "err = %v", err)

	opt = DefaultDescOptions()
	opt.TotalName = ""
	_, err = Describe(d, nil, dataset.Names("v"), FuncNames("mean"), opt)
	require.Error(t, err)

	_, err = Describe(d, nil, nil, FuncNames("mean"), DefaultDescOptions())
	require.True(t, errors.Is(err, ErrInvalidVariable))
}

func TestDescribeIdempotent(t *testing.T) {
	d := mustDataset(t,
		cat("g", "x", "y", "x", "z"),
		cat("h", "p", "p", "q", "q"),
		dataset.NewNumeric("v", []float64{1, 2, 3, math.NaN()}),
	)
	spec := FuncNames("mean", "sd", "N")
	a, err := Describe(d, dataset.Names("g", "h"), dataset.Names("v"), spec, DefaultDescOptions())
	require.NoError(t, err)
	b, err := Describe(d, dataset.Names("g", "h"), dataset.Names("v"), spec, DefaultDescOptions())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDescribeNoRows(t *testing.T) {
	d := mustDataset(t, cat("g"), dataset.NewNumeric("v", nil))
	_, err := Describe(d, dataset.Names("g"), dataset.Names("v"), FuncNames("mean"), DefaultDescOptions())
	require.True(t, errors.Is(err, ErrEmptyInput), "err = %v", err)

	_, err = Describe(d, nil, dataset.Names("v"), FuncNames("mean"), DefaultDescOptions())
	require.True(t, errors.Is(err, ErrEmptyInput), "err = %v", err)
}

func TestDescribeRejectsShadowedColumns(t *testing.T) {
	d := mustDataset(t,
		cat("mean", "x", "y"),
		dataset.NewNumeric("v", []float64{1, 2}),
	)
	_, err := Describe(d, dataset.Names("mean"), dataset.Names("v"), FuncNames("mean", "max"), DefaultDescOptions())
	require.True(t, errors.Is(err, ErrInvalidVariable), "err = %v", err)
	require.Contains(t, err.Error(), `"mean"`)

	tbl, err := Describe(d, dataset.Names("mean"), dataset.Names("v"), FuncNames("max"), DefaultDescOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"mean", "max"}, tbl.Columns)
}
