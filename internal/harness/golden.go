package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tally/internal/report"
)

// GoldenBytes returns the canonical JSON golden form of a scenario result:
// the scenario name, snapshot fingerprint and every check in both modes.
func GoldenBytes(scenarioName string, result *Result) ([]byte, error) {
	return report.MarshalCanonical(goldenDocument(scenarioName, result))
}

// goldenDocument converts a result to the map[string]any form
// report.MarshalCanonical accepts.
func goldenDocument(scenarioName string, result *Result) map[string]any {
	checks := make([]any, len(result.Checks))
	for i, c := range result.Checks {
		checks[i] = map[string]any{
			"query":      c.Query,
			"expected":   c.Expected,
			"sequential": c.Sequential,
			"parallel":   c.Parallel,
			"pass":       c.Pass,
		}
	}
	return map[string]any{
		"scenario":    scenarioName,
		"fingerprint": result.Fingerprint,
		"pass":        result.Pass,
		"checks":      checks,
	}
}

// RunWithGolden executes a scenario and compares its checks against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the output doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := GoldenBytes(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
