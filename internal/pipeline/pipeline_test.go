package pipeline

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/engine"
)

type item struct {
	id    int
	group string
	price float64
}

// executors returns one executor per mode; the parallel one splits small
// inputs so every test exercises real partitioning.
func executors() map[string]*engine.Executor {
	return map[string]*engine.Executor{
		"sequential": engine.New(),
		"parallel":   engine.New(engine.WithMode(engine.Parallel), engine.WithWorkers(4), engine.WithThreshold(3)),
	}
}

func sampleItems(n int) []item {
	r := rand.New(rand.NewSource(int64(n)))
	groups := []string{"a", "b", "c", "d"}
	out := make([]item, n)
	for i := range out {
		out[i] = item{id: i, group: groups[r.Intn(len(groups))], price: float64(r.Intn(1000)) / 4}
	}
	return out
}

func TestFilter(t *testing.T) {
	items := sampleItems(50)
	for name, e := range executors() {
		got, err := Filter(context.Background(), e, items, func(it item) (bool, error) {
			return it.id%3 == 0, nil
		})
		require.NoError(t, err, name)
		require.Len(t, got, 17, name)
		for i, it := range got {
			assert.Equal(t, i*3, it.id, "%s: order preserved", name)
		}
	}
}

func TestMap(t *testing.T) {
	for name, e := range executors() {
		got, err := Map(context.Background(), e, []int{1, 2, 3, 4, 5, 6, 7}, func(v int) (string, error) {
			return strconv.Itoa(v * 10), nil
		})
		require.NoError(t, err, name)
		assert.Equal(t, []string{"10", "20", "30", "40", "50", "60", "70"}, got, name)
	}
}

func TestFlatMap(t *testing.T) {
	for name, e := range executors() {
		got, err := FlatMap(context.Background(), e, []int{0, 1, 2, 3, 4}, func(v int) ([]int, error) {
			out := make([]int, v)
			for i := range out {
				out[i] = v
			}
			return out, nil
		})
		require.NoError(t, err, name)
		assert.Equal(t, []int{1, 2, 2, 3, 3, 3, 4, 4, 4, 4}, got, name)
	}
}

func TestSumBy_ModesAgree(t *testing.T) {
	items := sampleItems(1000)
	results := map[string]float64{}
	for name, e := range executors() {
		got, err := SumBy(context.Background(), e, items, func(it item) (float64, error) { return it.price, nil })
		require.NoError(t, err, name)
		results[name] = got
	}
	assert.InEpsilon(t, results["sequential"], results["parallel"], 1e-9)
}

func TestSumBy_Empty(t *testing.T) {
	for name, e := range executors() {
		got, err := SumBy(context.Background(), e, nil, func(it item) (float64, error) { return it.price, nil })
		require.NoError(t, err, name)
		assert.Equal(t, 0.0, got, name)
	}
}

func TestCountIf(t *testing.T) {
	for name, e := range executors() {
		n, err := CountIf(context.Background(), e, sampleItems(40), func(it item) (bool, error) { return it.id < 10, nil })
		require.NoError(t, err, name)
		assert.Equal(t, int64(10), n, name)
	}
}

func TestDistinct(t *testing.T) {
	for name, e := range executors() {
		got, err := Distinct(context.Background(), e, []int{5, 1, 5, 2, 1, 9, 2, 5}, func(v int) (int, error) { return v, nil })
		require.NoError(t, err, name)
		assert.Equal(t, []int{1, 2, 5, 9}, Sorted(got), name)
	}
}

func TestGroupByKey_SumAndMean(t *testing.T) {
	items := sampleItems(500)

	// Reference computed with plain loops.
	wantSum := map[string]float64{}
	wantN := map[string]int{}
	for _, it := range items {
		wantSum[it.group] += it.price
		wantN[it.group]++
	}

	for name, e := range executors() {
		sums, err := GroupByKey(context.Background(), e, items,
			func(it item) (string, error) { return it.group, nil },
			func(it item) (Sum, error) { return Sum(it.price), nil },
		)
		require.NoError(t, err, name)
		require.Len(t, sums, len(wantSum), name)
		for g, want := range wantSum {
			assert.InDelta(t, want, float64(sums[g]), 1e-6, "%s/%s", name, g)
		}

		means, err := GroupByKey(context.Background(), e, items,
			func(it item) (string, error) { return it.group, nil },
			func(it item) (Mean, error) { return MeanOf(it.price), nil },
		)
		require.NoError(t, err, name)
		for g, m := range means {
			assert.Equal(t, int64(wantN[g]), m.N, "%s/%s", name, g)
			assert.InDelta(t, wantSum[g]/float64(wantN[g]), m.Value(), 1e-9, "%s/%s", name, g)
		}
	}
}

func TestGroupBy_MultipleAndZeroEmissions(t *testing.T) {
	// Each value v contributes v to every key in [0, v); 0 contributes nothing.
	items := []int{0, 3, 1, 0, 2}
	for name, e := range executors() {
		got, err := GroupBy(context.Background(), e, items, func(v int, emit Emit[int, Set[int]]) error {
			for k := 0; k < v; k++ {
				emit(k, SetOf(v))
			}
			return nil
		})
		require.NoError(t, err, name)
		assert.Len(t, got, 3, "%s: no zero-filled keys", name)
		assert.Equal(t, []int{1, 2, 3}, Sorted(got[0]), name)
		assert.Equal(t, []int{2, 3}, Sorted(got[1]), name)
		assert.Equal(t, []int{3}, Sorted(got[2]), name)
	}
}

func TestGroupBy_ErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	for name, e := range executors() {
		got, err := GroupByKey(context.Background(), e, sampleItems(30),
			func(it item) (string, error) {
				if it.id == 17 {
					return "", boom
				}
				return it.group, nil
			},
			func(it item) (Count, error) { return 1, nil },
		)
		assert.ErrorIs(t, err, boom, name)
		assert.Nil(t, got, name)
	}
}

func TestMapValues(t *testing.T) {
	got := MapValues(map[string]Mean{"a": {Total: 9, N: 3}}, Mean.Value)
	assert.Equal(t, map[string]float64{"a": 3}, got)
}

func TestTopK(t *testing.T) {
	items := sampleItems(200)
	byPrice := func(a, b item) bool { return a.price > b.price }

	var results [][]item
	for name, e := range executors() {
		got, err := TopK(context.Background(), e, items, 7, byPrice)
		require.NoError(t, err, name)
		require.Len(t, got, 7, name)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].price, got[i].price, "%s: best first", name)
		}
		// Every excluded item is no better than the last included one.
		chosen := map[int]bool{}
		for _, it := range got {
			chosen[it.id] = true
		}
		for _, it := range items {
			if !chosen[it.id] {
				assert.LessOrEqual(t, it.price, got[len(got)-1].price, name)
			}
		}
		results = append(results, got)
	}
	assert.Equal(t, results[0], results[1], "ties resolved identically in both modes")
}

func TestTopK_FewerThanK(t *testing.T) {
	for name, e := range executors() {
		got, err := TopK(context.Background(), e, []int{3, 1, 2}, 5, func(a, b int) bool { return a > b })
		require.NoError(t, err, name)
		assert.Equal(t, []int{3, 2, 1}, got, name)
	}
}

func TestTopK_HugeK(t *testing.T) {
	items := sampleItems(40)
	for name, e := range executors() {
		got, err := TopK(context.Background(), e, items, math.MaxInt, func(a, b item) bool { return a.price > b.price })
		require.NoError(t, err, name)
		assert.Len(t, got, len(items), name)
	}
}

func TestTopK_NonPositiveK(t *testing.T) {
	got, err := TopK(context.Background(), engine.New(), []int{1, 2}, 0, func(a, b int) bool { return a > b })
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTopK_TiesKeepInputOrder(t *testing.T) {
	type rec struct{ rank, id int }
	items := []rec{{1, 0}, {2, 1}, {2, 2}, {1, 3}, {2, 4}, {2, 5}, {0, 6}}
	for name, e := range executors() {
		got, err := TopK(context.Background(), e, items, 3, func(a, b rec) bool { return a.rank > b.rank })
		require.NoError(t, err, name)
		assert.Equal(t, []rec{{2, 1}, {2, 2}, {2, 4}}, got, name)
	}
}

func TestSet(t *testing.T) {
	var s Set[int]
	s = s.Merge(SetOf(1, 2))
	other := SetOf(2, 3)
	s = s.Merge(other)

	assert.True(t, s.Has(3))
	assert.False(t, s.Has(4))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, other.Len(), "argument not modified")
	assert.True(t, SetOf(3, 2, 1).Equal(s))
	assert.False(t, SetOf(1, 2).Equal(s))
}
