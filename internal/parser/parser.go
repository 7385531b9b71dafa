package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cran/rapportools/internal/dataset"
)

// Loader reads a file into a dataset.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*dataset.Dataset, error)
}

// Options controls how files are turned into datasets.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// NAStrings are cell values read as missing.
	NAStrings []string
	// Factors are columns kept categorical even when every value is numeric.
	Factors []string
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection. SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		NAStrings:  []string{"", "NA", "N/A", "null", "NULL"},
		SheetIndex: 1,
	}
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported dataset format")

// LoadFile selects a loader based on filename and reads the dataset.
func LoadFile(path string, opt Options) (*dataset.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
