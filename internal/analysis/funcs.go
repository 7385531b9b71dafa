package analysis

import (
	"math"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Func is a summary function over one numeric vector. Missing values arrive
// as NaN unless the caller asked for them to be removed.
type Func func(x []float64) float64

// Registry resolves function names to callables.
type Registry interface {
	Lookup(name string) (Func, bool)
}

// FuncRegistry is a map-backed Registry.
type FuncRegistry map[string]Func

func (r FuncRegistry) Lookup(name string) (Func, bool) {
	fn, ok := r[name]
	return fn, ok && fn != nil
}

// builtins lists the canonical name of every built-in; the first name wins
// when deriving a display name from a callable.
var builtins = []struct {
	name string
	fn   Func
}{
	{"mean", Mean},
	{"sd", SD},
	{"var", Var},
	{"min", Min},
	{"max", Max},
	{"range", Range},
	{"sum", Sum},
	{"median", Median},
	{"IQR", IQR},
	{"length", Length},
	{"N", Length},
	{"valid", Valid},
	{"missing", Missing},
	{"se.mean", SEMean},
	{"skewness", Skewness},
	{"kurtosis", Kurtosis},
}

var builtinNames = func() map[uintptr]string {
	m := make(map[uintptr]string, len(builtins))
	for _, b := range builtins {
		p := reflect.ValueOf(b.fn).Pointer()
		if _, ok := m[p]; !ok {
			m[p] = b.name
		}
	}
	return m
}()

// DefaultRegistry returns a fresh registry holding the built-in functions.
func DefaultRegistry() FuncRegistry {
	r := make(FuncRegistry, len(builtins))
	for _, b := range builtins {
		r[b.name] = b.fn
	}
	return r
}

var anonFunc = regexp.MustCompile(`^func\d+$`)

// identifier derives a display name from a callable: the registry name for
// built-ins, otherwise the Go identifier. Anonymous functions have none.
func identifier(fn Func) string {
	p := reflect.ValueOf(fn).Pointer()
	if name, ok := builtinNames[p]; ok {
		return name
	}
	rf := runtime.FuncForPC(p)
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if anonFunc.MatchString(name) {
		return ""
	}
	return name
}

func hasNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Mean is the arithmetic mean.
func Mean(x []float64) float64 {
	if len(x) == 0 || hasNaN(x) {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// SD is the sample standard deviation.
func SD(x []float64) float64 {
	if len(x) < 2 || hasNaN(x) {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// Var is the sample variance.
func Var(x []float64) float64 {
	if len(x) < 2 || hasNaN(x) {
		return math.NaN()
	}
	return stat.Variance(x, nil)
}

func Min(x []float64) float64 {
	if len(x) == 0 || hasNaN(x) {
		return math.NaN()
	}
	return floats.Min(x)
}

func Max(x []float64) float64 {
	if len(x) == 0 || hasNaN(x) {
		return math.NaN()
	}
	return floats.Max(x)
}

// Range is max minus min.
func Range(x []float64) float64 {
	if len(x) == 0 || hasNaN(x) {
		return math.NaN()
	}
	return floats.Max(x) - floats.Min(x)
}

func Sum(x []float64) float64 {
	if hasNaN(x) {
		return math.NaN()
	}
	return floats.Sum(x)
}

func Median(x []float64) float64 {
	if len(x) == 0 || hasNaN(x) {
		return math.NaN()
	}
	return quantile(sorted(x), 0.5)
}

// IQR is the distance between the first and third quartiles.
func IQR(x []float64) float64 {
	if len(x) == 0 || hasNaN(x) {
		return math.NaN()
	}
	s := sorted(x)
	return quantile(s, 0.75) - quantile(s, 0.25)
}

// Length counts every value, missing or not.
func Length(x []float64) float64 { return float64(len(x)) }

// Valid counts non-missing values.
func Valid(x []float64) float64 {
	var n int
	for _, v := range x {
		if !math.IsNaN(v) {
			n++
		}
	}
	return float64(n)
}

// Missing counts missing values.
func Missing(x []float64) float64 { return float64(len(x)) - Valid(x) }

// SEMean is the standard error of the mean.
func SEMean(x []float64) float64 {
	if len(x) < 2 || hasNaN(x) {
		return math.NaN()
	}
	return stat.StdDev(x, nil) / math.Sqrt(float64(len(x)))
}

// Skewness is the sample skewness.
func Skewness(x []float64) float64 {
	if len(x) < 3 || hasNaN(x) {
		return math.NaN()
	}
	return stat.Skew(x, nil)
}

// Kurtosis is the sample excess kurtosis.
func Kurtosis(x []float64) float64 {
	if len(x) < 4 || hasNaN(x) {
		return math.NaN()
	}
	return stat.ExKurtosis(x, nil)
}

func sorted(x []float64) []float64 {
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	return cp
}

// quantile interpolates linearly between order statistics.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
