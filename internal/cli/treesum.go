package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/harness"
	"github.com/roach88/tally/internal/tree"
)

// TreeSumOutput holds the three sums of a tree. They agree up to
// floating-point rounding, since the structural sum groups additions
// differently from the folds.
type TreeSumOutput struct {
	Structural float64 `json:"structural"`
	Fold       float64 `json:"fold"`
	TreeFold   float64 `json:"tree_fold"`
	Size       int     `json:"size"`
	Depth      int     `json:"depth"`
}

func (o TreeSumOutput) String() string {
	return fmt.Sprintf("structural: %g\nfold:       %g\ntree fold:  %g\nnodes: %d, depth: %d",
		o.Structural, o.Fold, o.TreeFold, o.Size, o.Depth)
}

// NewTreeSumCommand creates the tree-sum command.
func NewTreeSumCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree-sum <tree.yaml>",
		Short: "Sum a numeric tree three ways",
		Long: `Load a numeric tree from YAML and sum its values by structural
recursion, by folding the list of children, and by the generic tree fold.

Tree format:
  value: 1
  children:
    - value: 2
      children: [{value: 5}, {value: 6}]
    - value: 3

Example:
  tally tree-sum ./tree.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreeSum(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runTreeSum(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if !fileExists(path) {
		return reportError(formatter, NewExitError(ExitCommandError, fmt.Sprintf("tree file not found: %s", path)))
	}
	t, err := harness.LoadTree(path)
	if err != nil {
		return reportError(formatter, WrapExitError(ExitCommandError, "failed to load tree", err))
	}
	formatter.VerboseLog("Loaded tree from %s", path)

	structural, err := tree.SumStructural(t)
	if err != nil {
		return reportError(formatter, WrapExitError(ExitFailure, "structural sum failed", err))
	}

	return formatter.Success(TreeSumOutput{
		Structural: structural,
		Fold:       tree.SumFold(t),
		TreeFold:   tree.SumTreeFold(t),
		Size:       tree.Size(t),
		Depth:      tree.Depth(t),
	})
}
