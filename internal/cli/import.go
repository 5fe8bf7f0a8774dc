package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/harness"
	"github.com/roach88/tally/internal/report"
	"github.com/roach88/tally/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// ImportOutput is the result of the import command.
type ImportOutput struct {
	Database    string `json:"database"`
	Customers   int    `json:"customers"`
	Products    int    `json:"products"`
	Orders      int    `json:"orders"`
	Fingerprint string `json:"fingerprint"`
}

func (o ImportOutput) String() string {
	return fmt.Sprintf("Imported %d customers, %d products, %d orders into %s\nsnapshot %s",
		o.Customers, o.Products, o.Orders, o.Database, o.Fingerprint)
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <snapshot.yaml>",
		Short: "Load a snapshot file into a SQLite database",
		Long: `Validate a snapshot YAML file and write it into a SQLite database,
creating the database if it doesn't exist. Entities already present are
replaced by ID, so importing the same file twice is a no-op.

Example:
  tally import --db ./tally.db ./snapshot.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if !fileExists(path) {
		return reportError(formatter, NewExitError(ExitCommandError, fmt.Sprintf("snapshot file not found: %s", path)))
	}
	snap, err := harness.LoadSnapshotFile(path)
	if err != nil {
		return reportError(formatter, WrapExitError(ExitCommandError, "failed to load snapshot", err))
	}
	fingerprint, err := report.Fingerprint(snap)
	if err != nil {
		return reportError(formatter, err)
	}

	logger.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return reportError(formatter, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	if err := st.Import(commandContext(cmd), snap); err != nil {
		return reportError(formatter, WrapExitError(ExitFailure, "import failed", err))
	}
	logger.Info("snapshot imported", "fingerprint", fingerprint)

	return formatter.Success(ImportOutput{
		Database:    opts.Database,
		Customers:   len(snap.Customers),
		Products:    len(snap.Products),
		Orders:      len(snap.Orders),
		Fingerprint: fingerprint,
	})
}
