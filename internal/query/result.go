package query

import (
	"context"
	"math"
	"reflect"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/pipeline"
)

// DefaultTolerance is the tolerance used when comparing results of the two
// execution modes.
const DefaultTolerance = 1e-9

// Equal reports whether two query results agree. Floats agree when they
// differ by at most tol relative to the larger magnitude (absolute below
// magnitude 1). Sets and mappings must hold the same keys; mapped floats
// are compared with tol.
func Equal(a, b any, tol float64) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && floatEqual(x, y, tol)
	case int64:
		y, ok := b.(int64)
		return ok && x == y
	case model.Counts:
		y, ok := b.(model.Counts)
		return ok && x == y
	case pipeline.Set[int64]:
		y, ok := b.(pipeline.Set[int64])
		return ok && x.Equal(y)
	case map[int64]float64:
		y, ok := b.(map[int64]float64)
		return ok && floatMapEqual(x, y, tol)
	case map[string]float64:
		y, ok := b.(map[string]float64)
		return ok && floatMapEqual(x, y, tol)
	case map[int64]pipeline.Set[int64]:
		y, ok := b.(map[int64]pipeline.Set[int64])
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xs := range x {
			ys, ok := y[k]
			if !ok || !xs.Equal(ys) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func floatEqual(x, y, tol float64) bool {
	if x == y {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	return math.Abs(x-y) <= tol*scale
}

func floatMapEqual[K comparable](x, y map[K]float64, tol float64) bool {
	if len(x) != len(y) {
		return false
	}
	for k, xv := range x {
		yv, ok := y[k]
		if !ok || !floatEqual(xv, yv, tol) {
			return false
		}
	}
	return true
}

// Comparison holds one query's result in both execution modes.
type Comparison struct {
	Query      string
	Sequential any
	Parallel   any
	Agree      bool
}

// Compare runs every registered query sequentially and in parallel and
// reports whether each pair of results agrees within tol. The parallel runs
// use a's executor settings with Parallel mode.
func Compare(ctx context.Context, a *Analyzer, snap *model.Snapshot, p Params, tol float64) ([]Comparison, error) {
	seq, err := a.WithMode(engine.Sequential).RunAll(ctx, snap, p)
	if err != nil {
		return nil, err
	}
	par, err := a.WithMode(engine.Parallel).RunAll(ctx, snap, p)
	if err != nil {
		return nil, err
	}

	out := make([]Comparison, len(seq))
	for i := range seq {
		out[i] = Comparison{
			Query:      seq[i].Query,
			Sequential: seq[i].Result,
			Parallel:   par[i].Result,
			Agree:      Equal(seq[i].Result, par[i].Result, tol),
		}
	}
	return out, nil
}
