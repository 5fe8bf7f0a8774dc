package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/model"
)

// CountsOptions holds flags for the counts command.
type CountsOptions struct {
	*RootOptions
	SourceOptions
	ExecOptions
}

// CountsOutput is the result of the counts command.
type CountsOutput struct {
	model.Counts
	Mode string `json:"mode"`
}

func (o CountsOutput) String() string {
	return fmt.Sprintf("customers: %d\norders:    %d\nproducts:  %d", o.Customers, o.Orders, o.Products)
}

// NewCountsCommand creates the counts command.
func NewCountsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count customers, orders and products",
		Long: `Count the entities of a snapshot. A quick check that a database or
snapshot file loads and links cleanly.

Example:
  tally counts --db ./tally.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCounts(opts, cmd)
		},
	}

	addSourceFlags(cmd, &opts.SourceOptions)
	addExecFlags(cmd, &opts.ExecOptions, true)

	return cmd
}

func runCounts(opts *CountsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

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
	counts, err := analyzer.Counts(ctx, snap)
	if err != nil {
		return reportError(formatter, queryFailure(err))
	}
	return formatter.Success(CountsOutput{Counts: counts, Mode: analyzer.Mode().String()})
}
