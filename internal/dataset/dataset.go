package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind is the storage type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Logical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Logical:
		return "logical"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidVariable reports a variable reference that does not resolve to a column.
	ErrInvalidVariable = errors.New("invalid variable reference")
	// ErrTypeMismatch reports a column whose kind cannot serve the requested operation.
	ErrTypeMismatch = errors.New("type mismatch")
)

// VariableError names the offending variable.
type VariableError struct {
	Name   string
	Reason string
}

func (e *VariableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("variable %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("variable %q not found", e.Name)
}

func (e *VariableError) Unwrap() error { return ErrInvalidVariable }

// Column is a named, homogeneous sequence with a per-row missing mask.
// Columns are immutable once constructed.
type Column struct {
	name    string
	kind    Kind
	num     []float64
	str     []string
	bools   []bool
	missing []bool
	levels  []string
}

// NewNumeric builds a numeric column. NaN values are treated as missing.
func NewNumeric(name string, vals []float64) *Column {
	c := &Column{name: name, kind: Numeric, num: make([]float64, len(vals)), missing: make([]bool, len(vals))}
	copy(c.num, vals)
	for i, v := range vals {
		if math.IsNaN(v) {
			c.missing[i] = true
		}
	}
	return c
}

// NewCategorical builds a categorical column. missing may be nil.
func NewCategorical(name string, vals []string, missing []bool) *Column {
	c := &Column{name: name, kind: Categorical, str: make([]string, len(vals)), missing: make([]bool, len(vals))}
	copy(c.str, vals)
	copy(c.missing, missing)
	for i := range c.str {
		if c.missing[i] {
			c.str[i] = ""
		}
	}
	return c
}

// NewLogical builds a logical column. missing may be nil.
func NewLogical(name string, vals []bool, missing []bool) *Column {
	c := &Column{name: name, kind: Logical, bools: make([]bool, len(vals)), missing: make([]bool, len(vals))}
	copy(c.bools, vals)
	copy(c.missing, missing)
	return c
}

// AsFactor returns a copy of c with an explicit level order. Values that are
// not among levels become missing.
func (c *Column) AsFactor(levels ...string) *Column {
	out := &Column{
		name:    c.name,
		kind:    c.kind,
		num:     c.num,
		str:     c.str,
		bools:   c.bools,
		missing: make([]bool, len(c.missing)),
		levels:  append([]string(nil), levels...),
	}
	allowed := make(map[string]struct{}, len(levels))
	for _, l := range levels {
		allowed[l] = struct{}{}
	}
	for i := range c.missing {
		if c.missing[i] {
			out.missing[i] = true
			continue
		}
		if _, ok := allowed[c.text(i)]; !ok {
			out.missing[i] = true
		}
	}
	return out
}

// Rename returns a shallow copy of c carrying a new name.
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind { return c.kind }
func (c *Column) Len() int { return len(c.missing) }

// IsNA reports whether row i is missing.
func (c *Column) IsNA(i int) bool { return c.missing[i] }

// HasNA reports whether any row is missing.
func (c *Column) HasNA() bool {
	for _, m := range c.missing {
		if m {
			return true
		}
	}
	return false
}

// Text returns the textual value at row i and false when it is missing.
func (c *Column) Text(i int) (string, bool) {
	if c.missing[i] {
		return "", false
	}
	return c.text(i), true
}

func (c *Column) text(i int) string {
	switch c.kind {
	case Numeric:
		return strconv.FormatFloat(c.num[i], 'g', -1, 64)
	case Logical:
		if c.bools[i] {
			return "TRUE"
		}
		return "FALSE"
	default:
		return c.str[i]
	}
}

// Levels returns the level order of the column: the explicit factor levels
// when set, otherwise distinct non-missing values in first-appearance order.
func (c *Column) Levels() []string {
	if c.levels != nil {
		return append([]string(nil), c.levels...)
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range c.missing {
		if c.missing[i] {
			continue
		}
		v := c.text(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Codes maps every row to its index in Levels(), or -1 when missing.
func (c *Column) Codes() ([]int, []string) {
	levels := c.Levels()
	pos := make(map[string]int, len(levels))
	for i, l := range levels {
		pos[l] = i
	}
	codes := make([]int, c.Len())
	for i := range codes {
		if c.missing[i] {
			codes[i] = -1
			continue
		}
		codes[i] = pos[c.text(i)]
	}
	return codes, levels
}

// Floats returns a copy of the column as numbers, NaN marking missing rows.
// Logical columns coerce to 0/1; categorical columns are a type mismatch.
func (c *Column) Floats() ([]float64, error) {
	out := make([]float64, c.Len())
	switch c.kind {
	case Numeric:
		copy(out, c.num)
	case Logical:
		for i, b := range c.bools {
			if b {
				out[i] = 1
			}
		}
	default:
		return nil, fmt.Errorf("column %q is %s, not numeric: %w", c.name, c.kind, ErrTypeMismatch)
	}
	for i, m := range c.missing {
		if m {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// Dataset is an ordered collection of equal-length named columns.
type Dataset struct {
	cols  []*Column
	index map[string]int
	n     int
}

// New assembles a dataset. Column names must be unique and lengths equal.
func New(cols ...*Column) (*Dataset, error) {
	d := &Dataset{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := d.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.name)
		}
		if i == 0 {
			d.n = c.Len()
		} else if c.Len() != d.n {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.name, c.Len(), d.n)
		}
		d.index[c.name] = i
		d.cols = append(d.cols, c)
	}
	return d, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.n }

// Names returns column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.name
	}
	return out
}

// Columns returns the columns in order.
func (d *Dataset) Columns() []*Column { return append([]*Column(nil), d.cols...) }

// Column looks a column up by name.
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, &VariableError{Name: name}
	}
	return d.cols[i], nil
}
