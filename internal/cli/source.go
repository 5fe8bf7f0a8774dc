package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/harness"
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/policy"
	"github.com/roach88/tally/internal/query"
	"github.com/roach88/tally/internal/store"
)

// SourceOptions selects where a command reads its snapshot from. Exactly
// one of Database and Snapshot must be set.
type SourceOptions struct {
	Database string // SQLite database written by `tally import`
	Snapshot string // snapshot YAML file
}

func addSourceFlags(cmd *cobra.Command, opts *SourceOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "path to snapshot YAML file")
	cmd.MarkFlagsMutuallyExclusive("db", "snapshot")
	cmd.MarkFlagsOneRequired("db", "snapshot")
}

// load reads and validates the snapshot.
func (o *SourceOptions) load(ctx context.Context, logger *slog.Logger) (*model.Snapshot, error) {
	if o.Snapshot != "" {
		logger.Debug("loading snapshot", "path", o.Snapshot)
		snap, err := harness.LoadSnapshotFile(o.Snapshot)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load snapshot", err)
		}
		return snap, nil
	}

	logger.Debug("opening database", "path", o.Database)
	st, err := openExisting(o.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	snap, err := st.LoadSnapshot(ctx)
	if err != nil {
		if model.IsMissingReference(err) {
			return nil, WrapExitError(ExitFailure, "invalid snapshot in database", err)
		}
		return nil, WrapExitError(ExitCommandError, "failed to load snapshot", err)
	}
	return snap, nil
}

// ExecOptions configures the executor and discount policy.
type ExecOptions struct {
	Mode      string
	Workers   int
	Threshold int
	Policy    string // CUE policy file; empty means policy.Default()
}

// addExecFlags registers the executor flags. Commands that run both modes
// leave out --mode.
func addExecFlags(cmd *cobra.Command, opts *ExecOptions, withMode bool) {
	opts.Mode = engine.Sequential.String()
	if withMode {
		cmd.Flags().StringVar(&opts.Mode, "mode", opts.Mode, "execution mode (sequential|parallel)")
	}
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel worker count (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.Threshold, "threshold", engine.DefaultThreshold, "largest partition reduced without further splitting")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "path to CUE discount policy (default: built-in table)")
}

// analyzer builds the analyzer for the configured mode and policy.
func (o *ExecOptions) analyzer(logger *slog.Logger) (*query.Analyzer, error) {
	mode, err := engine.ParseMode(o.Mode)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --mode", err)
	}
	if o.Workers < 0 || o.Threshold < 1 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid pool size: workers %d, threshold %d", o.Workers, o.Threshold))
	}

	var p policy.Policy = policy.Default()
	if o.Policy != "" {
		table, err := policy.LoadCUE(o.Policy)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load policy", err)
		}
		p = table
	}

	opts := []engine.Option{
		engine.WithMode(mode),
		engine.WithThreshold(o.Threshold),
		engine.WithLogger(logger),
	}
	if o.Workers > 0 {
		opts = append(opts, engine.WithWorkers(o.Workers))
	}
	return query.NewAnalyzer(engine.New(opts...), p), nil
}

// openExisting opens a database that `tally import` created. store.Open
// would silently create an empty one.
func openExisting(path string) (*store.Store, error) {
	if !fileExists(path) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// queryFailure maps a query error to an exit error: caller mistakes exit 2,
// data problems exit 1.
func queryFailure(err error) error {
	switch {
	case query.IsUnknownQuery(err), query.IsInvalidParam(err):
		return WrapExitError(ExitCommandError, "invalid query", err)
	default:
		return WrapExitError(ExitFailure, "query failed", err)
	}
}

// errorCode returns the JSON error code for err.
func errorCode(err error) string {
	switch {
	case query.IsUnknownQuery(err):
		return ErrCodeUnknownQuery
	case query.IsInvalidParam(err):
		return ErrCodeInvalidInput
	case GetExitCode(err) == ExitCommandError:
		return ErrCodeInvalidInput
	case model.IsMissingReference(err):
		return ErrCodeQueryFailed
	default:
		return ErrCodeGeneric
	}
}

// reportError writes err in the configured format and returns it, so
// commands can `return reportError(f, err)`.
func reportError(f *OutputFormatter, err error) error {
	if f.Format == "json" {
		_ = f.Error(errorCode(err), err.Error(), nil)
	}
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
