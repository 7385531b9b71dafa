package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func double(x []float64) float64 { return 2 * Sum(x) }

func TestResolveShapes(t *testing.T) {
	m, err := Resolve(SingleFunc(Mean), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"mean"}, m.Names())

	m, err = Resolve(Single("avg", Mean), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"avg"}, m.Names())

	m, err = Resolve(Funcs(Fn(Mean), Named("spread", SD), Fn(double)), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"mean", "spread", "double"}, m.Names())
	require.Equal(t, 12.0, m.Get("double")([]float64{1, 2, 3}))

	m, err = Resolve(FuncNames("median", "IQR", "N"), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"median", "IQR", "N"}, m.Names())
	require.Equal(t, 3.0, m.Get("N")([]float64{1, 2, 3}))
}

func TestResolveCustomRegistry(t *testing.T) {
	reg := FuncRegistry{"twice": double}
	m, err := Resolve(FuncNames("twice"), reg)
	require.NoError(t, err)
	require.Equal(t, 4.0, m.Get("twice")([]float64{2}))

	_, err = Resolve(FuncNames("mean"), reg)
	require.True(t, errors.Is(err, ErrInvalidFunctionSpec))
}

func TestResolveRejects(t *testing.T) {
	cases := map[string]FuncSpec{
		"nil spec":      nil,
		"unknown name":  FuncNames("nope"),
		"empty names":   FuncNames(),
		"empty list":    Funcs(),
		"nil callable":  Funcs(Named("x", nil)),
		"duplicate":     Funcs(Fn(Mean), Named("mean", Median)),
		"dup names":     FuncNames("sd", "sd"),
		"anonymous fn":  SingleFunc(func(x []float64) float64 { return 0 }),
		"single nil fn": SingleFunc(nil),
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(spec, nil)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidFunctionSpec), "err = %v", err)
			require.True(t, errors.Is(err, ErrUnknownFunctionSpec))
		})
	}
}

func TestBuiltins(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	require.Equal(t, 2.5, Mean(x))
	require.Equal(t, 2.5, Median(x))
	require.Equal(t, 10.0, Sum(x))
	require.Equal(t, 1.0, Min(x))
	require.Equal(t, 4.0, Max(x))
	require.Equal(t, 3.0, Range(x))
	require.InDelta(t, 1.6667, Var(x), 1e-4)
	require.InDelta(t, math.Sqrt(5.0/3), SD(x), 1e-12)
	require.InDelta(t, 1.5, IQR(x), 1e-12)
	require.InDelta(t, SD(x)/2, SEMean(x), 1e-12)

	withNA := []float64{1, math.NaN(), 3}
	for name, fn := range map[string]Func{"mean": Mean, "sum": Sum, "min": Min, "max": Max, "median": Median} {
		require.True(t, math.IsNaN(fn(withNA)), name)
	}
	require.Equal(t, 3.0, Length(withNA))
	require.Equal(t, 2.0, Valid(withNA))
	require.Equal(t, 1.0, Missing(withNA))

	require.True(t, math.IsNaN(Mean(nil)))
	require.True(t, math.IsNaN(SD([]float64{1})))
	require.Equal(t, 0.0, Sum(nil))
}
