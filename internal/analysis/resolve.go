package analysis

// FuncSpec is the closed set of ways a caller may specify summary
// functions: a single callable, a list of optionally named callables, or a
// list of registry names. Resolve normalizes all of them into a FuncMap.
type FuncSpec interface {
	entries(reg Registry) ([]FuncEntry, error)
}

// FuncEntry pairs a display name with a callable. An empty Name falls back
// to the callable's identifier.
type FuncEntry struct {
	Name string
	Fn   Func
}

// Fn is an unnamed entry.
func Fn(fn Func) FuncEntry { return FuncEntry{Fn: fn} }

// Named is an entry with an explicit display name.
func Named(name string, fn Func) FuncEntry { return FuncEntry{Name: name, Fn: fn} }

type singleSpec struct{ e FuncEntry }

// Single specifies one function under an explicit display name.
func Single(name string, fn Func) FuncSpec { return singleSpec{FuncEntry{Name: name, Fn: fn}} }

// SingleFunc specifies one function named after its identifier.
func SingleFunc(fn Func) FuncSpec { return singleSpec{FuncEntry{Fn: fn}} }

func (s singleSpec) entries(Registry) ([]FuncEntry, error) { return []FuncEntry{s.e}, nil }

type listSpec []FuncEntry

// Funcs specifies an ordered list of functions, some named and some not.
func Funcs(entries ...FuncEntry) FuncSpec { return listSpec(entries) }

func (l listSpec) entries(Registry) ([]FuncEntry, error) {
	if len(l) == 0 {
		return nil, &FunctionSpecError{Reason: "empty function list"}
	}
	return []FuncEntry(l), nil
}

type nameSpec []string

// FuncNames specifies functions by the names they are registered under.
func FuncNames(names ...string) FuncSpec { return nameSpec(names) }

func (n nameSpec) entries(reg Registry) ([]FuncEntry, error) {
	if len(n) == 0 {
		return nil, &FunctionSpecError{Reason: "empty function name list"}
	}
	if reg == nil {
		reg = DefaultRegistry()
	}
	out := make([]FuncEntry, 0, len(n))
	for _, name := range n {
		fn, ok := reg.Lookup(name)
		if !ok {
			return nil, &FunctionSpecError{Name: name, Reason: "is not a known function"}
		}
		out = append(out, FuncEntry{Name: name, Fn: fn})
	}
	return out, nil
}

// FuncMap is an ordered mapping from display name to callable.
type FuncMap struct {
	names []string
	fns   map[string]Func
}

func (m *FuncMap) Len() int { return len(m.names) }

// Names returns display names in resolution order.
func (m *FuncMap) Names() []string { return append([]string(nil), m.names...) }

func (m *FuncMap) Get(name string) Func { return m.fns[name] }

// Resolve normalizes spec into a FuncMap. A nil reg means DefaultRegistry.
func Resolve(spec FuncSpec, reg Registry) (*FuncMap, error) {
	if spec == nil {
		return nil, &FunctionSpecError{Reason: "no functions given"}
	}
	entries, err := spec.entries(reg)
	if err != nil {
		return nil, err
	}
	m := &FuncMap{fns: make(map[string]Func, len(entries))}
	for _, e := range entries {
		if e.Fn == nil {
			return nil, &FunctionSpecError{Name: e.Name, Reason: "has no callable"}
		}
		name := e.Name
		if name == "" {
			name = identifier(e.Fn)
		}
		if name == "" {
			return nil, &FunctionSpecError{Reason: "anonymous function needs a name"}
		}
		if _, dup := m.fns[name]; dup {
			return nil, &FunctionSpecError{Name: name, Reason: "is given more than once"}
		}
		m.names = append(m.names, name)
		m.fns[name] = e.Fn
	}
	return m, nil
}
