package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cran/rapportools/internal/dataset"
)

// buildDataset infers a kind per column and assembles the dataset. A column
// is numeric when every non-missing value parses as a number, logical when
// every value is a boolean literal, categorical otherwise.
func buildDataset(header []string, records [][]string, opt Options) (*dataset.Dataset, error) {
	na := make(map[string]struct{}, len(opt.NAStrings))
	for _, s := range opt.NAStrings {
		na[s] = struct{}{}
	}
	factors := make(map[string]struct{}, len(opt.Factors))
	for _, f := range opt.Factors {
		factors[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}

	cols := make([]*dataset.Column, 0, len(header))
	used := map[string]struct{}{}
	for j, h := range header {
		base := safeName(h, j)
		name := base
		for k := 1; ; k++ {
			if _, taken := used[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s.%d", base, k)
		}
		used[name] = struct{}{}

		raw := make([]string, len(records))
		missing := make([]bool, len(records))
		for i, rec := range records {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			if _, ok := na[v]; ok {
				missing[i] = true
			}
			raw[i] = v
		}
		_, forced := factors[strings.ToLower(name)]
		cols = append(cols, inferColumn(name, raw, missing, forced, opt))
	}
	d, err := dataset.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	return d, nil
}

func inferColumn(name string, raw []string, missing []bool, forceCategorical bool, opt Options) *dataset.Column {
	if !forceCategorical {
		if nums, ok := allNumeric(raw, missing, opt); ok {
			return dataset.NewNumeric(name, nums)
		}
		if vals, ok := allLogical(raw, missing); ok {
			return dataset.NewLogical(name, vals, missing)
		}
	}
	return dataset.NewCategorical(name, raw, missing)
}

func allNumeric(raw []string, missing []bool, opt Options) ([]float64, bool) {
	out := make([]float64, len(raw))
	valid := 0
	for i, v := range raw {
		if missing[i] {
			out[i] = math.NaN()
			continue
		}
		x, ok := parseNumeric(v, opt)
		if !ok {
			return nil, false
		}
		out[i] = x
		valid++
	}
	return out, valid > 0
}

func allLogical(raw []string, missing []bool) ([]bool, bool) {
	out := make([]bool, len(raw))
	valid := 0
	for i, v := range raw {
		if missing[i] {
			continue
		}
		switch v {
		case "TRUE", "true", "True", "T":
			out[i] = true
		case "FALSE", "false", "False", "F":
		default:
			return nil, false
		}
		valid++
	}
	return out, valid > 0
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	// Decide decimal separator
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	// Remove thousands separators if they differ from decimal
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func safeName(s string, idx int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Sprintf("V%d", idx+1)
	}
	return s
}
