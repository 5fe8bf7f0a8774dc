package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/policy"
	"github.com/roach88/tally/internal/query"
	"github.com/roach88/tally/internal/report"
	"github.com/roach88/tally/internal/testutil"
)

// Options configures a harness run.
type Options struct {
	// Logger receives query logs. Nil discards them.
	Logger *slog.Logger

	// Workers and Threshold configure the parallel executor. Zero values
	// mean 4 workers and a threshold of 1, which partitions even tiny
	// snapshots.
	Workers   int
	Threshold int
}

// Harness runs one scenario's expectations in both execution modes.
type Harness struct {
	sequential *query.Analyzer
	parallel   *query.Analyzer
	tolerance  float64
}

// Run executes a test scenario with default options.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return RunWithOptions(ctx, scenario, Options{})
}

// RunWithOptions executes a test scenario and returns the result.
//
// Execution flow:
// 1. Build and validate the snapshot
// 2. Load the discount policy
// 3. Run each expectation sequentially and in parallel
// 4. Compare both results with each other and with the expected value
//
// A returned error means the scenario could not be run at all (bad snapshot,
// bad policy, query failure); failed expectations are reported in the
// Result.
func RunWithOptions(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	snap, err := scenario.Snapshot.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	pol, err := loadPolicy(scenario.Policy)
	if err != nil {
		return nil, err
	}

	h := newHarness(pol, opts)

	result := NewResult()
	if result.Fingerprint, err = report.Fingerprint(snap); err != nil {
		return nil, err
	}

	for i := range scenario.Expect {
		e := &scenario.Expect[i]
		check, err := h.evaluate(ctx, snap, e)
		if err != nil {
			return nil, fmt.Errorf("expect[%d] %s: %w", i, e.Query, err)
		}
		result.Checks = append(result.Checks, check)
		if !check.Pass {
			result.AddError(fmt.Sprintf("expect[%d] %s: expected %s, sequential %s, parallel %s",
				i, e.Query, show(check.Expected), show(check.Sequential), show(check.Parallel)))
		}
	}

	return result, nil
}

func newHarness(pol policy.Policy, opts Options) *Harness {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := opts.Workers
	if workers == 0 {
		workers = 4
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = 1
	}

	base := engine.New(
		engine.WithLogger(logger),
		engine.WithWorkers(workers),
		engine.WithThreshold(threshold),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator("")),
	)
	return &Harness{
		sequential: query.NewAnalyzer(base, pol),
		parallel:   query.NewAnalyzer(base.With(engine.WithMode(engine.Parallel)), pol),
		tolerance:  query.DefaultTolerance,
	}
}

func loadPolicy(path string) (policy.Policy, error) {
	if path == "" {
		return policy.Default(), nil
	}
	table, err := policy.LoadCUE(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return table, nil
}

// evaluate runs one expectation in both modes.
func (h *Harness) evaluate(ctx context.Context, snap *model.Snapshot, e *Expectation) (Check, error) {
	params, err := e.Params()
	if err != nil {
		return Check{}, err
	}
	expected, err := decodeExpected(e.Query, &e.Value)
	if err != nil {
		return Check{}, fmt.Errorf("decode value: %w", err)
	}

	seq, err := h.sequential.Run(ctx, e.Query, snap, params)
	if err != nil {
		return Check{}, err
	}
	par, err := h.parallel.Run(ctx, e.Query, snap, params)
	if err != nil {
		return Check{}, err
	}

	check := Check{
		Query: e.Query,
		Pass:  query.Equal(seq, par, h.tolerance) && query.Equal(seq, expected, h.tolerance),
	}
	if check.Expected, err = report.Encode(expected); err != nil {
		return Check{}, err
	}
	if check.Sequential, err = report.Encode(seq); err != nil {
		return Check{}, err
	}
	if check.Parallel, err = report.Encode(par); err != nil {
		return Check{}, err
	}
	return check, nil
}

// show renders an encoded value as canonical JSON for messages.
func show(v any) string {
	b, err := report.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
