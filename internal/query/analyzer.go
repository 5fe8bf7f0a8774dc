package query

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/policy"
)

// Analyzer runs queries with a fixed executor and discount policy.
//
// An Analyzer holds no per-query state and is safe for concurrent use.
type Analyzer struct {
	exec   *engine.Executor
	policy policy.Policy
}

// NewAnalyzer creates an Analyzer. A nil executor means engine.New(); a nil
// policy means policy.None.
func NewAnalyzer(exec *engine.Executor, p policy.Policy) *Analyzer {
	if exec == nil {
		exec = engine.New()
	}
	if p == nil {
		p = policy.None
	}
	return &Analyzer{exec: exec, policy: p}
}

// Executor returns the analyzer's executor.
func (a *Analyzer) Executor() *engine.Executor { return a.exec }

// Policy returns the analyzer's discount policy.
func (a *Analyzer) Policy() policy.Policy { return a.policy }

// Mode returns the execution mode of the analyzer's executor.
func (a *Analyzer) Mode() engine.Mode { return a.exec.Mode() }

// WithMode returns a copy of a that runs in mode m.
func (a *Analyzer) WithMode(m engine.Mode) *Analyzer {
	return &Analyzer{exec: a.exec.With(engine.WithMode(m)), policy: a.policy}
}

// observe runs one query and logs its outcome. The run ID is taken from
// ctx when the caller set one, otherwise a fresh one is generated.
// Errors are wrapped with the query name.
func observe[R any](ctx context.Context, a *Analyzer, name string, f func(context.Context) (R, error)) (R, error) {
	runID := engine.RunIDFrom(ctx)
	if runID == "" {
		runID = a.exec.NewRunID()
		ctx = engine.ContextWithRunID(ctx, runID)
	}
	logger := a.exec.Logger()

	start := time.Now()
	result, err := f(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Warn("query failed",
			"query", name,
			"mode", a.exec.Mode().String(),
			"run_id", runID,
			"error", err,
		)
		var zero R
		return zero, fmt.Errorf("%s: %w", name, err)
	}

	logger.Info("query completed",
		"query", name,
		"mode", a.exec.Mode().String(),
		"run_id", runID,
		"elapsed", elapsed,
	)
	return result, nil
}
