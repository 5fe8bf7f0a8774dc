package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/harness"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Output   string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a database's snapshot as YAML",
		Long: `Load the snapshot held in a SQLite database and write it in the
snapshot YAML format that import and --snapshot read.

Examples:
  tally export --db ./tally.db
  tally export --db ./tally.db -o ./snapshot.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	src := SourceOptions{Database: opts.Database}
	snap, err := src.load(commandContext(cmd), logger)
	if err != nil {
		return reportError(formatter, err)
	}

	data, err := yaml.Marshal(harness.SpecFromSnapshot(snap))
	if err != nil {
		return reportError(formatter, fmt.Errorf("failed to marshal snapshot: %w", err))
	}

	if opts.Output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return reportError(formatter, WrapExitError(ExitCommandError, "failed to write output", err))
	}
	formatter.VerboseLog("Wrote %s", opts.Output)
	return nil
}
