package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/query"
	"github.com/roach88/tally/internal/report"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	SourceOptions
	ExecOptions
	ParamOptions

	Tolerance float64
}

// ComparedQuery is one query's results in both modes.
type ComparedQuery struct {
	Query      string `json:"query"`
	Agree      bool   `json:"agree"`
	Sequential any    `json:"sequential"`
	Parallel   any    `json:"parallel"`
}

// CompareOutput is the result of the compare command.
type CompareOutput struct {
	Fingerprint string          `json:"fingerprint"`
	Agree       bool            `json:"agree"`
	Queries     []ComparedQuery `json:"queries"`
}

// String renders one line per query, with both results for disagreements.
func (o CompareOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "snapshot %s\n", o.Fingerprint)
	mismatched := 0
	for _, q := range o.Queries {
		if q.Agree {
			fmt.Fprintf(&b, "✓ %s\n", q.Query)
			continue
		}
		mismatched++
		fmt.Fprintf(&b, "✗ %s\n", q.Query)
		fmt.Fprintf(&b, "  sequential: %s\n", canonicalText(q.Sequential))
		fmt.Fprintf(&b, "  parallel:   %s\n", canonicalText(q.Parallel))
	}
	if mismatched == 0 {
		fmt.Fprintf(&b, "\nAll %d queries agree", len(o.Queries))
	} else {
		fmt.Fprintf(&b, "\n%d of %d queries disagree", mismatched, len(o.Queries))
	}
	return b.String()
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every query in both modes and check they agree",
		Long: `Run every query sequentially and in parallel over the same snapshot and
report whether each pair of results agrees. Floating-point results agree
within --tolerance.

Exit codes:
  0 - All queries agree
  1 - At least one query disagrees, or a query failed
  2 - Command error (invalid paths, bad parameters, etc.)

Examples:
  tally compare --snapshot ./snapshot.yaml
  tally compare --db ./tally.db --workers 8 --threshold 64 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, cmd)
		},
	}

	addSourceFlags(cmd, &opts.SourceOptions)
	addExecFlags(cmd, &opts.ExecOptions, false)
	addParamFlags(cmd, &opts.ParamOptions)
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", query.DefaultTolerance, "relative tolerance for floating-point results")

	return cmd
}

func runCompare(opts *CompareOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	params, err := opts.params()
	if err != nil {
		return reportError(formatter, err)
	}
	analyzer, err := opts.analyzer(logger)
	if err != nil {
		return reportError(formatter, err)
	}

	ctx, runID := withRunID(cmd, analyzer.Executor())
	formatter.RunID = runID

	snap, err := opts.load(ctx, logger)
	if err != nil {
		return reportError(formatter, err)
	}
	fingerprint, err := report.Fingerprint(snap)
	if err != nil {
		return reportError(formatter, err)
	}

	comparisons, err := query.Compare(ctx, analyzer, snap, params, opts.Tolerance)
	if err != nil {
		return reportError(formatter, queryFailure(err))
	}

	out := CompareOutput{Fingerprint: fingerprint, Agree: true, Queries: make([]ComparedQuery, len(comparisons))}
	for i, c := range comparisons {
		seq, err := report.Encode(c.Sequential)
		if err != nil {
			return reportError(formatter, err)
		}
		par, err := report.Encode(c.Parallel)
		if err != nil {
			return reportError(formatter, err)
		}
		out.Queries[i] = ComparedQuery{Query: c.Query, Agree: c.Agree, Sequential: seq, Parallel: par}
		if !c.Agree {
			out.Agree = false
			logger.Warn("modes disagree", "query", c.Query, "run_id", runID)
		}
	}

	if err := formatter.Success(out); err != nil {
		return err
	}
	if !out.Agree {
		return NewExitError(ExitFailure, "execution modes disagree")
	}
	return nil
}

// canonicalText renders an encoded value as canonical JSON.
func canonicalText(v any) string {
	b, err := report.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
