package cmd

import (
	"fmt"
	"strings"

	"github.com/cran/rapportools/internal/analysis"
	cfgpkg "github.com/cran/rapportools/internal/config"
	"github.com/cran/rapportools/internal/dataset"
)

const (
	kindDesc = "desc"
	kindFreq = "freq"
)

// reportSpec describes one table. It is filled from command flags for desc
// and freq, and decoded from a plan for batch. Nil option pointers fall back
// to config and engine defaults.
type reportSpec struct {
	Name      string   `yaml:"name" json:"name"`
	Kind      string   `yaml:"kind" json:"kind" validate:"required,oneof=desc freq"`
	ID        []string `yaml:"id,omitempty" json:"id,omitempty"`
	Measure   []string `yaml:"measure,omitempty" json:"measure,omitempty"`
	Fn        []string `yaml:"fn,omitempty" json:"fn,omitempty"`
	Vars      []string `yaml:"vars,omitempty" json:"vars,omitempty"`
	Format    string   `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=md csv json"`
	TotalName string   `yaml:"total_name,omitempty" json:"-"`

	NARemove   *bool `yaml:"na_rm,omitempty" json:"-"`
	Margins    *bool `yaml:"margins,omitempty" json:"-"`
	IncludeNA  *bool `yaml:"include_na,omitempty" json:"-"`
	DropUnused *bool `yaml:"drop_unused,omitempty" json:"-"`
	Reorder    *bool `yaml:"reorder,omitempty" json:"-"`
	Count      *bool `yaml:"count,omitempty" json:"-"`
	Pct        *bool `yaml:"pct,omitempty" json:"-"`
	CumulCount *bool `yaml:"cumul_count,omitempty" json:"-"`
	CumulPct   *bool `yaml:"cumul_pct,omitempty" json:"-"`
	UseLabels  *bool `yaml:"use_labels,omitempty" json:"-"`
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// descOptions resolves config defaults and explicit overrides into engine options.
func (s reportSpec) descOptions(c *cfgpkg.Global, labels analysis.Labeler) analysis.DescOptions {
	opt := analysis.DefaultDescOptions()
	opt.NARemove = c.NARemove
	opt.Margins = c.Margins
	opt.UseLabels = c.UseLabels
	opt.TotalName = c.TotalName
	setBool(&opt.NARemove, s.NARemove)
	setBool(&opt.Margins, s.Margins)
	setBool(&opt.UseLabels, s.UseLabels)
	if s.TotalName != "" {
		opt.TotalName = s.TotalName
	}
	opt.Labels = labels
	return opt
}

func (s reportSpec) freqOptions(c *cfgpkg.Global, labels analysis.Labeler) analysis.FreqOptions {
	opt := analysis.DefaultFreqOptions()
	opt.UseLabels = c.UseLabels
	opt.TotalName = c.TotalName
	setBool(&opt.NARemove, s.NARemove)
	setBool(&opt.IncludeNA, s.IncludeNA)
	setBool(&opt.DropUnusedLevels, s.DropUnused)
	setBool(&opt.Reorder, s.Reorder)
	setBool(&opt.Count, s.Count)
	setBool(&opt.Pct, s.Pct)
	setBool(&opt.CumulCount, s.CumulCount)
	setBool(&opt.CumulPct, s.CumulPct)
	setBool(&opt.UseLabels, s.UseLabels)
	if s.TotalName != "" {
		opt.TotalName = s.TotalName
	}
	opt.Labels = labels
	return opt
}

// build runs the engine for one report against a loaded dataset.
func (s reportSpec) build(d *dataset.Dataset, c *cfgpkg.Global, labels analysis.Labeler) (*analysis.Table, error) {
	switch s.Kind {
	case kindDesc:
		fns := s.Fn
		if len(fns) == 0 {
			fns = []string{"mean"}
		}
		return analysis.Describe(d, dataset.Names(s.ID...), dataset.Names(s.Measure...),
			analysis.FuncNames(fns...), s.descOptions(c, labels))
	case kindFreq:
		return analysis.Frequency(d, dataset.Names(s.Vars...), s.freqOptions(c, labels))
	default:
		return nil, fmt.Errorf("unknown report kind %q (use desc or freq)", s.Kind)
	}
}

// splitList flattens repeated and comma-separated flag values.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
