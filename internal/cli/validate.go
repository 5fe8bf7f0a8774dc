package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/harness"
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/policy"
	"github.com/roach88/tally/internal/report"
)

// Validation issue codes.
const (
	IssueMissingReference = "MISSING_REFERENCE"
	IssueInvalidEntity    = "INVALID_ENTITY"
	IssuePolicy           = "INVALID_POLICY"
	IssueLoad             = "LOAD_FAILED"
)

// ValidationIssue is one problem found in a snapshot or policy.
type ValidationIssue struct {
	Source  string `json:"source"` // "snapshot" or "policy"
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"` // policy source line, when known
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Counts      *model.Counts     `json:"counts,omitempty"`
	Errors      []ValidationIssue `json:"errors,omitempty"`
}

func (r ValidationResult) String() string {
	var b strings.Builder
	if r.Valid {
		b.WriteString("✓ Valid")
		if r.Counts != nil {
			fmt.Fprintf(&b, ": %d customers, %d products, %d orders\nsnapshot %s",
				r.Counts.Customers, r.Counts.Products, r.Counts.Orders, r.Fingerprint)
		}
		return b.String()
	}
	fmt.Fprintf(&b, "✗ %d problem(s)", len(r.Errors))
	for _, e := range r.Errors {
		if e.Line > 0 {
			fmt.Fprintf(&b, "\n  %s:%d: [%s] %s", e.Source, e.Line, e.Code, e.Message)
		} else {
			fmt.Fprintf(&b, "\n  %s: [%s] %s", e.Source, e.Code, e.Message)
		}
	}
	return b.String()
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	SourceOptions
	Policy string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a snapshot and discount policy without running queries",
		Long: `Validate a snapshot (file or database) and/or a CUE discount policy.

Reports every dangling reference, duplicate ID and out-of-range value rather
than stopping at the first, so a data set can be fixed in one pass.

Examples:
  tally validate --snapshot ./snapshot.yaml
  tally validate --db ./tally.db --policy ./policy.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "path to snapshot YAML file")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "path to CUE discount policy")
	cmd.MarkFlagsMutuallyExclusive("db", "snapshot")
	cmd.MarkFlagsOneRequired("db", "snapshot", "policy")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	result := ValidationResult{Valid: true}

	if opts.Database != "" || opts.Snapshot != "" {
		path := opts.Snapshot + opts.Database
		if !fileExists(path) {
			return reportError(formatter, NewExitError(ExitCommandError, fmt.Sprintf("not found: %s", path)))
		}
		formatter.VerboseLog("Validating snapshot %s", path)
		snap, err := opts.loadUnchecked(cmd, logger)
		if err != nil {
			result.Errors = append(result.Errors, snapshotIssues(err)...)
		} else {
			counts := snap.Counts()
			result.Counts = &counts
			if result.Fingerprint, err = report.Fingerprint(snap); err != nil {
				return reportError(formatter, err)
			}
		}
	}

	if opts.Policy != "" {
		formatter.VerboseLog("Validating policy %s", opts.Policy)
		if _, err := policy.LoadCUE(opts.Policy); err != nil {
			result.Errors = append(result.Errors, policyIssue(err))
		}
	}

	result.Valid = len(result.Errors) == 0
	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(result.Errors)))
	}
	return nil
}

// loadUnchecked loads the snapshot like SourceOptions.load but returns the
// validation error unwrapped, so every violation can be listed.
func (o *ValidateOptions) loadUnchecked(cmd *cobra.Command, logger *slog.Logger) (*model.Snapshot, error) {
	if o.Snapshot != "" {
		return harness.LoadSnapshotFile(o.Snapshot)
	}

	st, err := openExisting(o.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Debug("loading snapshot", "db", o.Database)
	return st.LoadSnapshot(commandContext(cmd))
}

// snapshotIssues flattens a (possibly joined) snapshot error into issues.
func snapshotIssues(err error) []ValidationIssue {
	var issues []ValidationIssue
	for _, e := range leafErrors(err) {
		issue := ValidationIssue{Source: "snapshot", Code: IssueLoad, Message: e.Error()}
		var mr *model.MissingReferenceError
		var ie *model.InvalidEntityError
		switch {
		case errors.As(e, &mr):
			issue.Code = IssueMissingReference
		case errors.As(e, &ie):
			issue.Code = IssueInvalidEntity
		}
		issues = append(issues, issue)
	}
	return issues
}

// leafErrors returns the members of the first errors.Join wrapped by err,
// or err itself when there is none.
func leafErrors(err error) []error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			return joined.Unwrap()
		}
	}
	return []error{err}
}

func policyIssue(err error) ValidationIssue {
	issue := ValidationIssue{Source: "policy", Code: IssuePolicy, Message: err.Error()}
	var ce *policy.CompileError
	if errors.As(err, &ce) {
		issue.Message = fmt.Sprintf("%s: %s", ce.Field, ce.Message)
		if ce.Pos.IsValid() {
			issue.Line = ce.Pos.Line()
		}
	}
	return issue
}
