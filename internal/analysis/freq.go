package analysis

import (
	"fmt"
	"sort"

	"github.com/cran/rapportools/internal/dataset"
)

// Frequency column names.
const (
	ColCount      = "N"
	ColPct        = "%"
	ColCumulCount = "Cumul. N"
	ColCumulPct   = "Cumul. %"
)

type freqRow struct {
	key   []int
	hasNA bool
	count float64
	pct   float64
	cumN  float64
	cumP  float64
}

// Frequency cross-tabulates factorVars over the cartesian product of their
// levels (first variable varying slowest) and derives counts, percentages
// and their running sums. The steps run in a fixed order: tabulate, drop
// empty combinations, reorder, percentages, cumulative sums, hide missing
// levels, total row, column selection.
func Frequency(data *dataset.Dataset, factorVars []dataset.Ref, opt FreqOptions) (*Table, error) {
	if !opt.Count && !opt.Pct && !opt.CumulCount && !opt.CumulPct {
		return nil, ErrNoSummarySelected
	}
	if err := validateOptions(opt); err != nil {
		return nil, err
	}
	if len(factorVars) == 0 {
		return nil, fmt.Errorf("no factor variables given: %w", ErrEmptyInput)
	}
	cols, n, err := dataset.Resolve(data, factorVars)
	if err != nil {
		return nil, err
	}

	// 1. tabulate
	dims := make([]dimension, len(cols))
	naLevel := make([]int, len(cols))
	for i, c := range cols {
		codes, levels := c.Codes()
		naLevel[i] = -1
		if !opt.NARemove && c.HasNA() {
			naLevel[i] = len(levels)
			levels = append(levels, naLabel)
			for r := range codes {
				if codes[r] < 0 {
					codes[r] = naLevel[i]
				}
			}
		}
		dims[i] = dimension{name: c.Name(), codes: codes, levels: levels}
	}
	rows := cartesian(dims, naLevel)
	stride := strides(dims)
	tabulated := 0
rowLoop:
	for r := 0; r < n; r++ {
		idx := 0
		for d := range dims {
			code := dims[d].codes[r]
			if code < 0 {
				continue rowLoop
			}
			idx += code * stride[d]
		}
		rows[idx].count++
		tabulated++
	}
	if tabulated == 0 {
		return nil, fmt.Errorf("no complete rows to tabulate: %w", ErrEmptyInput)
	}

	// 2. drop empty combinations
	if opt.DropUnusedLevels {
		kept := rows[:0]
		for _, fr := range rows {
			if fr.count > 0 {
				kept = append(kept, fr)
			}
		}
		rows = kept
	}

	// 3. reorder by count
	if opt.Reorder {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].count < rows[j].count })
	}

	// 4. percentages over every tabulated row
	var total float64
	for _, fr := range rows {
		total += fr.count
	}
	for i := range rows {
		rows[i].pct = rows[i].count / total * 100
	}

	// 5. running sums in the current order
	runningSums(rows)

	// 6. hide missing levels without re-basing percentages. Running sums
	// restart over the displayed rows so the last one meets the total row.
	if !opt.NARemove && !opt.IncludeNA {
		kept := rows[:0]
		for _, fr := range rows {
			if !fr.hasNA {
				kept = append(kept, fr)
			}
		}
		if len(kept) < len(rows) {
			runningSums(kept)
		}
		rows = kept
	}

	// 7. total row, 8. column selection. Derived columns are picked by
	// position since a factor name or label may equal a derived column name.
	derived := make([]derivedCol, 0, 4)
	for _, c := range []derivedCol{
		{ColCount, opt.Count, func(fr freqRow) float64 { return fr.count }},
		{ColPct, opt.Pct, func(fr freqRow) float64 { return fr.pct }},
		{ColCumulCount, opt.CumulCount, func(fr freqRow) float64 { return fr.cumN }},
		{ColCumulPct, opt.CumulPct, func(fr freqRow) float64 { return fr.cumP }},
	} {
		if c.on {
			derived = append(derived, c)
		}
	}

	t := &Table{Kind: KindFrequency}
	for _, c := range cols {
		t.Columns = append(t.Columns, labelFor(opt.UseLabels, opt.Labels, c.Name()))
	}
	for _, c := range derived {
		t.Columns = append(t.Columns, c.name)
	}

	var sum freqRow
	for _, fr := range rows {
		row := make([]Cell, 0, len(t.Columns))
		for d := range dims {
			row = append(row, Str(dims[d].levels[fr.key[d]]))
		}
		for _, c := range derived {
			row = append(row, Num(c.value(fr)))
		}
		t.Rows = append(t.Rows, row)
		sum.count += fr.count
		sum.pct += fr.pct
	}
	sum.cumN, sum.cumP = sum.count, sum.pct
	totalRow := make([]Cell, 0, len(t.Columns))
	for range dims {
		totalRow = append(totalRow, Str(opt.TotalName))
	}
	for _, c := range derived {
		totalRow = append(totalRow, Num(c.value(sum)))
	}
	t.Rows = append(t.Rows, totalRow)
	return t, nil
}

type derivedCol struct {
	name  string
	on    bool
	value func(freqRow) float64
}

func runningSums(rows []freqRow) {
	var cumN, cumP float64
	for i := range rows {
		cumN += rows[i].count
		cumP += rows[i].pct
		rows[i].cumN = cumN
		rows[i].cumP = cumP
	}
}

// cartesian lists every level combination, first dimension varying slowest.
func cartesian(dims []dimension, naLevel []int) []freqRow {
	size := 1
	for _, d := range dims {
		size *= len(d.levels)
	}
	stride := strides(dims)
	out := make([]freqRow, size)
	for i := range out {
		key := make([]int, len(dims))
		hasNA := false
		for d := range dims {
			key[d] = (i / stride[d]) % len(dims[d].levels)
			if key[d] == naLevel[d] {
				hasNA = true
			}
		}
		out[i] = freqRow{key: key, hasNA: hasNA}
	}
	return out
}

func strides(dims []dimension) []int {
	s := make([]int, len(dims))
	acc := 1
	for d := len(dims) - 1; d >= 0; d-- {
		s[d] = acc
		acc *= len(dims[d].levels)
	}
	return s
}
