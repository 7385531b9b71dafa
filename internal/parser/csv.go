package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cran/rapportools/internal/dataset"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(path string, opt Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, delimiterFor(path, opt), opt)
}

// ReadCSV reads delimited text with a header row.
func ReadCSV(r io.Reader, delim rune, opt Options) (*dataset.Dataset, error) {
	if delim == 0 {
		delim = ','
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w", dataset.ErrInvalidVariable)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	// strip UTF-8 BOM
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		records = append(records, rec)
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}
	}
	return buildDataset(header, records, opt)
}

func delimiterFor(path string, opt Options) rune {
	if opt.Delimiter != 0 {
		return opt.Delimiter
	}
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
