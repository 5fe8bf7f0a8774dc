package harness

// Check is the outcome of one expectation.
type Check struct {
	// Query is the query name.
	Query string `json:"query"`

	// Expected, Sequential and Parallel are the results in report.Encode
	// form, for display and golden comparison.
	Expected   any `json:"expected"`
	Sequential any `json:"sequential"`
	Parallel   any `json:"parallel"`

	// Pass is true when both modes agree and match the expected value.
	Pass bool `json:"pass"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every check passed.
	Pass bool `json:"pass"`

	// Fingerprint identifies the scenario's snapshot by content.
	Fingerprint string `json:"fingerprint"`

	// Checks holds one entry per expectation, in scenario order.
	Checks []Check `json:"checks"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Checks: []Check{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
