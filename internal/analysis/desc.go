package analysis

import (
	"fmt"
	"math"

	"github.com/cran/rapportools/internal/dataset"
)

// Describe summarizes measureVars with every function in fn, once per level
// combination of idVars. Without id variables it summarizes each measure
// over all rows. With Margins set, total rows are appended for every subset
// of id variables collapsed to opt.TotalName.
//
// Columns are the id variables in the given order followed by one column per
// function. With several measures those columns are named measure_function,
// and an ungrouped table gains a leading Variable column.
func Describe(data *dataset.Dataset, idVars, measureVars []dataset.Ref, fn FuncSpec, opt DescOptions) (*Table, error) {
	if err := validateOptions(opt); err != nil {
		return nil, err
	}
	fns, err := Resolve(fn, opt.Registry)
	if err != nil {
		return nil, err
	}
	if len(measureVars) == 0 {
		return nil, fmt.Errorf("no measure variables given: %w", ErrInvalidVariable)
	}
	refs := make([]dataset.Ref, 0, len(idVars)+len(measureVars))
	refs = append(refs, idVars...)
	refs = append(refs, measureVars...)
	cols, n, err := dataset.Resolve(data, refs)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("dataset has no rows: %w", ErrEmptyInput)
	}
	ids, measures := cols[:len(idVars)], cols[len(idVars):]

	vals := make([][]float64, len(measures))
	for i, m := range measures {
		v, err := m.Floats()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	if len(ids) == 0 {
		return describeAll(measures, vals, fns, opt)
	}
	return describeGroups(ids, measures, vals, n, fns, opt)
}

// uniqueColumns rejects tables whose headers would shadow each other, such
// as an id variable named like one of the functions.
func uniqueColumns(cols []string) error {
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("column %q would appear twice: %w", c, ErrInvalidVariable)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func describeAll(measures []*dataset.Column, vals [][]float64, fns *FuncMap, opt DescOptions) (*Table, error) {
	multi := len(measures) > 1
	t := &Table{Kind: KindDescriptive}
	if multi {
		t.Columns = append(t.Columns, "Variable")
	}
	t.Columns = append(t.Columns, fns.Names()...)
	if err := uniqueColumns(t.Columns); err != nil {
		return nil, err
	}

	for i, m := range measures {
		x := vals[i]
		if opt.NARemove {
			x = dropNA(x)
		}
		if len(x) == 0 {
			return nil, fmt.Errorf("measure %q has no values: %w", m.Name(), ErrEmptyInput)
		}
		row := make([]Cell, 0, len(t.Columns))
		if multi {
			row = append(row, Str(labelFor(opt.UseLabels, opt.Labels, m.Name())))
		}
		for _, name := range fns.Names() {
			row = append(row, Num(fns.Get(name)(x)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func describeGroups(ids, measures []*dataset.Column, vals [][]float64, n int, fns *FuncMap, opt DescOptions) (*Table, error) {
	dims := make([]dimension, len(ids))
	for i, c := range ids {
		dims[i] = newDimension(c)
	}
	g := groupRows(dims, n)
	if opt.Margins {
		g = withMargins(g)
	}

	t := &Table{Kind: KindDescriptive}
	for _, c := range ids {
		t.Columns = append(t.Columns, labelFor(opt.UseLabels, opt.Labels, c.Name()))
	}
	names := fns.Names()
	for _, m := range measures {
		for _, name := range names {
			if len(measures) > 1 {
				t.Columns = append(t.Columns, m.Name()+"_"+name)
			} else {
				t.Columns = append(t.Columns, name)
			}
		}
	}
	if err := uniqueColumns(t.Columns); err != nil {
		return nil, err
	}

	for _, k := range g.keys {
		members := g.members(k)
		row := make([]Cell, 0, len(t.Columns))
		for d := range dims {
			row = append(row, Str(g.label(k, d, opt.TotalName)))
		}
		for i := range measures {
			x := pick(vals[i], members, opt.NARemove)
			for _, name := range names {
				row = append(row, Num(fns.Get(name)(x)))
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func pick(x []float64, rows []int, naRemove bool) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if naRemove && math.IsNaN(x[r]) {
			continue
		}
		out = append(out, x[r])
	}
	return out
}

func dropNA(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
