package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/query"
)

// Scenario defines a conformance test scenario: a snapshot and the query
// results expected over it.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Policy is an optional path to a CUE discount policy, relative to the
	// scenario file. If empty, policy.Default() is used.
	Policy string `yaml:"policy,omitempty"`

	// Snapshot holds the entities the queries run over.
	Snapshot SnapshotSpec `yaml:"snapshot"`

	// Expect lists the expected query results.
	Expect []Expectation `yaml:"expect"`
}

// Expectation is one query with its parameters and expected result.
type Expectation struct {
	// Query is the registry name (e.g. "revenue-in-month").
	Query string `yaml:"query"`

	// Optional parameters; unset ones take query.DefaultParams().
	Month    int    `yaml:"month,omitempty"`
	K        *int   `yaml:"k,omitempty"`
	Start    string `yaml:"start,omitempty"`
	End      string `yaml:"end,omitempty"`
	Category string `yaml:"category,omitempty"`

	// Value is the expected result, in the same shape the query's JSON
	// output uses: a number, a list of IDs, or a mapping.
	Value yaml.Node `yaml:"value"`
}

// Params returns the query parameters of e.
func (e *Expectation) Params() (query.Params, error) {
	p := query.DefaultParams()
	if e.Month != 0 {
		p.Month = time.Month(e.Month)
	}
	if e.K != nil {
		p.K = *e.K
	}
	if e.Start != "" {
		d, err := model.ParseDate(e.Start)
		if err != nil {
			return p, fmt.Errorf("start: %w", err)
		}
		p.Start = d
	}
	if e.End != "" {
		d, err := model.ParseDate(e.End)
		if err != nil {
			return p, fmt.Errorf("end: %w", err)
		}
		p.End = d
	}
	if e.Category != "" {
		p.Category = e.Category
	}
	return p, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative Policy path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	var scenario Scenario
	if err := decodeStrict(path, &scenario); err != nil {
		return nil, err
	}

	if scenario.Policy != "" && !filepath.IsAbs(scenario.Policy) {
		scenario.Policy = filepath.Join(filepath.Dir(path), scenario.Policy)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads a single scenario file, or every *.yaml and *.yml
// file of a directory in name order.
func LoadScenarios(path string) ([]*Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []*Scenario{s}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	var scenarios []*Scenario
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		file := filepath.Join(path, entry.Name())
		s, err := LoadScenario(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		scenarios = append(scenarios, s)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", path)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Expect) == 0 {
		return fmt.Errorf("expect list is required and must be non-empty")
	}

	if s.Policy != "" {
		if _, err := os.Stat(s.Policy); os.IsNotExist(err) {
			return fmt.Errorf("policy file not found: %s", s.Policy)
		}
	}

	names := query.Names()
	for i, e := range s.Expect {
		if e.Query == "" {
			return fmt.Errorf("expect[%d]: query is required", i)
		}
		if !slices.Contains(names, e.Query) {
			return fmt.Errorf("expect[%d]: unknown query %q, expected one of %v", i, e.Query, names)
		}
		if e.Value.Kind == 0 {
			return fmt.Errorf("expect[%d]: value is required", i)
		}
		if _, err := e.Params(); err != nil {
			return fmt.Errorf("expect[%d]: %w", i, err)
		}
	}

	return nil
}
