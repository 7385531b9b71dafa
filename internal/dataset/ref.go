package dataset

import "fmt"

// Ref is a variable reference: either a column name looked up in a dataset
// or a column supplied directly.
type Ref struct {
	name string
	col  *Column
}

// ByName references a dataset column by name.
func ByName(name string) Ref { return Ref{name: name} }

// Literal wraps a column supplied by the caller.
func Literal(c *Column) Ref { return Ref{col: c} }

// Names is shorthand for a slice of ByName references.
func Names(names ...string) []Ref {
	out := make([]Ref, len(names))
	for i, n := range names {
		out[i] = ByName(n)
	}
	return out
}

// Name returns the referenced variable name.
func (r Ref) Name() string {
	if r.col != nil {
		return r.col.name
	}
	return r.name
}

// Resolve normalizes refs into columns of one common length. d may be nil
// when every ref is a literal.
func Resolve(d *Dataset, refs []Ref) ([]*Column, int, error) {
	n := -1
	if d != nil {
		n = d.Len()
	}
	out := make([]*Column, 0, len(refs))
	for _, r := range refs {
		var c *Column
		switch {
		case r.col != nil:
			c = r.col
		case d == nil:
			return nil, 0, &VariableError{Name: r.name, Reason: "no dataset to look it up in"}
		default:
			col, err := d.Column(r.name)
			if err != nil {
				return nil, 0, err
			}
			c = col
		}
		if n >= 0 && c.Len() != n {
			return nil, 0, &VariableError{Name: c.name, Reason: fmt.Sprintf("has %d rows, want %d", c.Len(), n)}
		}
		n = c.Len()
		out = append(out, c)
	}
	if n < 0 {
		n = 0
	}
	return out, n, nil
}
