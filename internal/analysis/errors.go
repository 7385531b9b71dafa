package analysis

import (
	"errors"
	"fmt"

	"github.com/cran/rapportools/internal/dataset"
)

var (
	// ErrInvalidFunctionSpec reports a function specification that cannot be
	// resolved to a unique, non-empty set of named functions.
	ErrInvalidFunctionSpec = errors.New("invalid function specification")
	// ErrUnknownFunctionSpec is the name Describe documents for the same failure.
	ErrUnknownFunctionSpec = ErrInvalidFunctionSpec
	// ErrNoSummarySelected reports a frequency call with every derived column disabled.
	ErrNoSummarySelected = errors.New("no summary column selected")
	// ErrEmptyInput reports input with no rows where at least one is required.
	ErrEmptyInput = errors.New("empty input")

	ErrInvalidVariable = dataset.ErrInvalidVariable
	ErrTypeMismatch    = dataset.ErrTypeMismatch
)

// FunctionSpecError describes why a function specification was rejected.
type FunctionSpecError struct {
	Name   string
	Reason string
}

func (e *FunctionSpecError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidFunctionSpec, e.Reason)
	}
	return fmt.Sprintf("%s: %q %s", ErrInvalidFunctionSpec, e.Name, e.Reason)
}

func (e *FunctionSpecError) Unwrap() error { return ErrInvalidFunctionSpec }
