package analysis

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cran/rapportools/internal/dataset"
)

// allLevel marks a dimension collapsed into its margin pseudo-level. It is
// only turned into the caller's total label when the table is assembled.
const allLevel = -1

// naLabel is how a missing categorical value is displayed.
const naLabel = "NA"

// dimension is one grouping variable with rows coded to level indices.
// Missing values get their own trailing level.
type dimension struct {
	name   string
	codes  []int
	levels []string
}

func newDimension(c *dataset.Column) dimension {
	codes, levels := c.Codes()
	na := len(levels)
	hasNA := false
	for i, code := range codes {
		if code < 0 {
			codes[i] = na
			hasNA = true
		}
	}
	if hasNA {
		levels = append(levels, naLabel)
	}
	return dimension{name: c.Name(), codes: codes, levels: levels}
}

// groupKey is a level combination: one level index per dimension.
type groupKey []int

func (k groupKey) id() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "|")
}

func (k groupKey) isMargin() bool {
	for _, v := range k {
		if v == allLevel {
			return true
		}
	}
	return false
}

// grouping is an order-preserving multimap from level combination to rows.
type grouping struct {
	dims []dimension
	keys []groupKey
	rows map[string][]int
}

func newGrouping(dims []dimension) *grouping {
	return &grouping{dims: dims, rows: make(map[string][]int)}
}

func (g *grouping) add(k groupKey, row int) {
	id := k.id()
	if _, ok := g.rows[id]; !ok {
		g.keys = append(g.keys, k)
	}
	g.rows[id] = append(g.rows[id], row)
}

func (g *grouping) members(k groupKey) []int { return g.rows[k.id()] }

// groupRows buckets n rows by their observed level combination.
func groupRows(dims []dimension, n int) *grouping {
	g := newGrouping(dims)
	for row := 0; row < n; row++ {
		k := make(groupKey, len(dims))
		for d := range dims {
			k[d] = dims[d].codes[row]
		}
		g.add(k, row)
	}
	g.sortKeys()
	return g
}

// withMargins returns a grouping that holds every group of g plus, for each
// non-empty subset of dimensions, the groups obtained by collapsing those
// dimensions to allLevel. Each row joins exactly one group per subset, so
// no margin counts a row twice.
func withMargins(g *grouping) *grouping {
	out := newGrouping(g.dims)
	for _, k := range g.keys {
		for _, row := range g.members(k) {
			out.add(k, row)
		}
	}
	nd := len(g.dims)
	for mask := 1; mask < 1<<nd; mask++ {
		for _, k := range g.keys {
			mk := make(groupKey, nd)
			for d := 0; d < nd; d++ {
				if mask&(1<<d) != 0 {
					mk[d] = allLevel
				} else {
					mk[d] = k[d]
				}
			}
			for _, row := range g.members(k) {
				out.add(mk, row)
			}
		}
	}
	out.sortKeys()
	return out
}

// sortKeys orders keys by level index per dimension, margins last.
func (g *grouping) sortKeys() {
	rank := func(d, v int) int {
		if v == allLevel {
			return len(g.dims[d].levels)
		}
		return v
	}
	sort.SliceStable(g.keys, func(i, j int) bool {
		a, b := g.keys[i], g.keys[j]
		for d := range a {
			ra, rb := rank(d, a[d]), rank(d, b[d])
			if ra != rb {
				return ra < rb
			}
		}
		return false
	})
}

// label renders dimension d of k, using total for the margin pseudo-level.
func (g *grouping) label(k groupKey, d int, total string) string {
	if k[d] == allLevel {
		return total
	}
	return g.dims[d].levels[k[d]]
}
