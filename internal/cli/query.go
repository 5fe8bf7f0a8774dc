package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/query"
	"github.com/roach88/tally/internal/report"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	SourceOptions
	ExecOptions
	ParamOptions
}

// ParamOptions holds query parameter flags. Queries ignore parameters they
// do not take.
type ParamOptions struct {
	Month    int
	K        int
	Start    string
	End      string
	Category string
}

func addParamFlags(cmd *cobra.Command, opts *ParamOptions) {
	defaults := query.DefaultParams()
	cmd.Flags().IntVar(&opts.Month, "month", int(defaults.Month), "month for revenue-in-month (1-12)")
	cmd.Flags().IntVar(&opts.K, "k", defaults.K, "number of orders for top-recent")
	cmd.Flags().StringVar(&opts.Start, "start", defaults.Start.Format(model.DateLayout), "period start for discount-in-period (inclusive)")
	cmd.Flags().StringVar(&opts.End, "end", defaults.End.Format(model.DateLayout), "period end for discount-in-period (exclusive)")
	cmd.Flags().StringVar(&opts.Category, "category", defaults.Category, "category for buyers-by-category")
}

// QueryOutput is the result of one query.
type QueryOutput struct {
	Query  string `json:"query"`
	Mode   string `json:"mode"`
	Result any    `json:"result"` // report.Encode form
	Digest string `json:"digest"` // report.ResultDigest
}

// String renders the result as canonical JSON.
func (o QueryOutput) String() string {
	return canonicalText(o.Result)
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <name>",
		Short: "Run one analytics query",
		Long: `Run one analytics query over a snapshot and print its result.

Available queries:
` + queryList() + `
Examples:
  tally query revenue-in-month --month 3 --snapshot ./snapshot.yaml
  tally query top-recent --k 10 --db ./tally.db --mode parallel
  tally query discount-in-period --start 2021-03-01 --end 2021-04-01 --policy ./policy.cue --db ./tally.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	addSourceFlags(cmd, &opts.SourceOptions)
	addExecFlags(cmd, &opts.ExecOptions, true)
	addParamFlags(cmd, &opts.ParamOptions)

	return cmd
}

func queryList() string {
	var b strings.Builder
	for _, s := range query.Specs() {
		fmt.Fprintf(&b, "  %-24s %s\n", s.Name, s.Description)
	}
	return b.String()
}

// params converts the flags to query parameters.
func (o *ParamOptions) params() (query.Params, error) {
	start, err := model.ParseDate(o.Start)
	if err != nil {
		return query.Params{}, WrapExitError(ExitCommandError, "invalid --start", err)
	}
	end, err := model.ParseDate(o.End)
	if err != nil {
		return query.Params{}, WrapExitError(ExitCommandError, "invalid --end", err)
	}
	return query.Params{
		Month:    time.Month(o.Month),
		K:        o.K,
		Start:    start,
		End:      end,
		Category: o.Category,
	}, nil
}

func runQuery(opts *QueryOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if _, err := query.Lookup(name); err != nil {
		return reportError(formatter, queryFailure(err))
	}
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

	result, err := analyzer.Run(ctx, name, snap, params)
	if err != nil {
		return reportError(formatter, queryFailure(err))
	}

	encoded, err := report.Encode(result)
	if err != nil {
		return reportError(formatter, err)
	}
	digest, err := report.ResultDigest(name, result)
	if err != nil {
		return reportError(formatter, err)
	}

	return formatter.Success(QueryOutput{
		Query:  name,
		Mode:   analyzer.Mode().String(),
		Result: encoded,
		Digest: digest,
	})
}

// withRunID tags the command context with one run ID for the whole
// invocation, so every query it runs logs the same run_id.
func withRunID(cmd *cobra.Command, exec *engine.Executor) (context.Context, string) {
	runID := exec.NewRunID()
	return engine.ContextWithRunID(commandContext(cmd), runID), runID
}
