package analysis

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DescOptions controls Describe.
type DescOptions struct {
	// NARemove drops missing values before each function call.
	NARemove bool
	// Margins appends total rows for every collapsed combination of id variables.
	Margins bool
	// TotalName labels margin rows.
	TotalName string `validate:"required"`
	// UseLabels swaps variable names for Labels in headers.
	UseLabels bool
	Labels    Labeler `validate:"-"`
	// Registry resolves functions given by name; nil means DefaultRegistry.
	Registry Registry `validate:"-"`
}

// DefaultDescOptions returns the defaults for descriptive tables.
func DefaultDescOptions() DescOptions {
	return DescOptions{Margins: true, TotalName: "Total"}
}

// FreqOptions controls Frequency.
type FreqOptions struct {
	// NARemove drops rows with any missing factor before tabulating.
	NARemove bool
	// IncludeNA keeps rows with missing levels in the displayed table. It only
	// matters when NARemove is false.
	IncludeNA bool
	// DropUnusedLevels removes zero-count combinations.
	DropUnusedLevels bool
	// Reorder sorts rows by ascending count before cumulating.
	Reorder bool

	Count      bool
	Pct        bool
	CumulCount bool
	CumulPct   bool

	TotalName string `validate:"required"`
	UseLabels bool
	Labels    Labeler `validate:"-"`
}

// DefaultFreqOptions returns the defaults for frequency tables.
func DefaultFreqOptions() FreqOptions {
	return FreqOptions{
		NARemove:   true,
		Count:      true,
		Pct:        true,
		CumulCount: true,
		CumulPct:   true,
		TotalName:  "Total",
	}
}

var validate = validator.New()

func validateOptions(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
