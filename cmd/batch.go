package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cran/rapportools/internal/analysis"
	"github.com/cran/rapportools/internal/logging"
	"github.com/cran/rapportools/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// batchPlan is the YAML document read by `rapport batch`. Relative paths are
// resolved against the plan's directory.
type batchPlan struct {
	Dataset string       `yaml:"dataset" validate:"required"`
	Labels  string       `yaml:"labels"`
	Sheet   string       `yaml:"sheet"`
	Factors []string     `yaml:"factors"`
	Reports []reportSpec `yaml:"reports" validate:"required,min=1,dive"`
}

// batchManifest records what a batch run produced.
type batchManifest struct {
	RunID     string          `json:"run_id"`
	Plan      string          `json:"plan"`
	Dataset   string          `json:"dataset"`
	Rows      int             `json:"rows"`
	CreatedAt time.Time       `json:"created_at"`
	Reports   []manifestEntry `json:"reports"`
}

type manifestEntry struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	File   string `json:"file"`
	Format string `json:"format"`
	Rows   int    `json:"rows"`
}

var (
	batchLoad   loadFlags
	batchJobs   int
	batchOutDir string
	batchFormat string
)

var planValidate = validator.New()

// loadPlan reads and validates a plan, naming unnamed reports report-N.
func loadPlan(path string) (*batchPlan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var p batchPlan
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := planValidate.Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	base := filepath.Dir(path)
	p.Dataset = resolveRel(base, p.Dataset)
	p.Labels = resolveRel(base, p.Labels)
	seen := map[string]struct{}{}
	for i := range p.Reports {
		r := &p.Reports[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("report-%d", i+1)
		}
		if strings.ContainsAny(r.Name, `/\`) {
			return nil, fmt.Errorf("invalid plan: report name %q must not contain path separators", r.Name)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("invalid plan: duplicate report name %q", r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return &p, nil
}

func resolveRel(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

var batchCmd = &cobra.Command{
	Use:   "batch <plan.yaml>",
	Short: "Build many desc/freq tables over one dataset from a YAML plan",
	Example: `  rapport batch plan.yaml --out-dir reports --jobs 8

plan.yaml:
  dataset: survey.csv
  labels: labels.yaml
  reports:
    - name: age-by-sex
      kind: desc
      id: [sex]
      measure: [age]
      fn: [mean, sd]
    - name: edu
      kind: freq
      vars: [edu]
      format: csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		jobs := c.BatchJobs
		if cmd.Flags().Changed("jobs") {
			jobs = batchJobs
		}
		if jobs < 1 {
			return fmt.Errorf("--jobs must be at least 1")
		}
		format := batchFormat
		if format == "" {
			format = c.OutputFormat
		}

		runID := uuid.NewString()
		log := logging.WithRun(logger, runID)
		ctx := logging.WithRunID(cmd.Context(), runID)

		lf := batchLoad
		if plan.Sheet != "" && lf.sheetName == "" {
			lf.sheetName = plan.Sheet
		}
		lf.factors = append(append([]string(nil), lf.factors...), plan.Factors...)
		d, err := lf.load(plan.Dataset)
		if err != nil {
			return err
		}
		labels, err := loadLabels(plan.Labels)
		if err != nil {
			return err
		}

		start := time.Now()
		tables, err := buildAll(ctx, plan.Reports, jobs, func(r reportSpec) (*analysis.Table, error) {
			return r.build(d, c, labels)
		})
		if err != nil {
			return err
		}
		log.Info("batch built", "reports", len(tables), "jobs", jobs, "elapsed", time.Since(start))

		out := cmd.OutOrStdout()
		manifest := batchManifest{
			RunID:     runID,
			Plan:      args[0],
			Dataset:   plan.Dataset,
			Rows:      d.Len(),
			CreatedAt: time.Now().UTC(),
		}
		if batchOutDir != "" {
			if err := utils.EnsureDir(batchOutDir); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
		}
		for i, r := range plan.Reports {
			f := format
			if r.Format != "" {
				f = r.Format
			}
			data, err := render(tables[i], f)
			if err != nil {
				return fmt.Errorf("%s: %w", r.Name, err)
			}
			if batchOutDir == "" {
				fmt.Fprintf(out, "## %s\n\n", r.Name)
				if _, err := out.Write(data); err != nil {
					return err
				}
				fmt.Fprintln(out)
				continue
			}
			file := r.Name + formatExt(f)
			if err := utils.SafeWriteFile(filepath.Join(batchOutDir, file), data); err != nil {
				return fmt.Errorf("%s: write output: %w", r.Name, err)
			}
			manifest.Reports = append(manifest.Reports, manifestEntry{
				Name: r.Name, Kind: r.Kind, File: file, Format: formatExt(f)[1:], Rows: len(tables[i].Rows),
			})
		}
		if batchOutDir == "" {
			return nil
		}
		b, err := utils.PrettyJSON(manifest)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(filepath.Join(batchOutDir, "manifest.json"), b); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote %d tables to %s (run %s)\n", len(tables), batchOutDir, runID)
		return nil
	},
}

// buildAll runs build for every report with at most jobs in flight. Results
// keep plan order; the first failure cancels the remaining reports.
func buildAll(ctx context.Context, reports []reportSpec, jobs int, build func(reportSpec) (*analysis.Table, error)) ([]*analysis.Table, error) {
	tables := make([]*analysis.Table, len(reports))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, r := range reports {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := build(r)
			if err != nil {
				return fmt.Errorf("report %q: %w", r.Name, err)
			}
			tables[i] = t
			logger.DebugContext(ctx, "report done", "report", r.Name, "kind", r.Kind, "rows", len(t.Rows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addLoadFlags(batchCmd, &batchLoad)
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 4, "maximum reports built concurrently (default from config)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for one file per report plus manifest.json (stdout if omitted)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "default output format: md|csv|json (default from config)")
}
