package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/query"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/mixed.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mixed", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "policy.cue"), s.Policy)
	assert.Len(t, s.Snapshot.Customers, 4)
	assert.Len(t, s.Snapshot.Products, 4)
	require.Len(t, s.Snapshot.Orders, 5)
	assert.Equal(t, []int64{10, 12, 12}, s.Snapshot.Orders[0].Products)
	assert.Equal(t, "2022-01-15", s.Snapshot.Orders[0].Date)
	assert.Len(t, s.Expect, 13)
}

func TestLoadScenarios_Directory(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "mixed", scenarios[0].Name, "name order")
	assert.Equal(t, "sample", scenarios[1].Name)
}

func TestLoadScenarios_Errors(t *testing.T) {
	_, err := LoadScenarios("testdata/does-not-exist")
	assert.Error(t, err)

	_, err = LoadScenarios(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"unknown_query.yaml", `unknown query "revenue-per-planet"`},
		{"unknown_field.yaml", "field customer not found"},
		{"missing_policy.yaml", "policy file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := LoadScenario(filepath.Join("testdata", "invalid", tt.file))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateScenario_RequiredFields(t *testing.T) {
	write := func(t *testing.T, body string) string {
		path := filepath.Join(t.TempDir(), "s.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		return path
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"no name", "description: d\nexpect: [{query: counts, value: 0}]\n", "name is required"},
		{"no description", "name: n\nexpect: [{query: counts, value: 0}]\n", "description is required"},
		{"no expectations", "name: n\ndescription: d\n", "expect list is required"},
		{"no query", "name: n\ndescription: d\nexpect: [{value: 0}]\n", "query is required"},
		{"no value", "name: n\ndescription: d\nexpect: [{query: counts}]\n", "value is required"},
		{"bad date", "name: n\ndescription: d\nexpect: [{query: discount-in-period, start: soon, value: 0}]\n", "start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(write(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExpectation_Params(t *testing.T) {
	k := 0
	e := Expectation{Month: 7, K: &k, Start: "2020-01-01", End: "2020-02-01", Category: "Books"}
	p, err := e.Params()
	require.NoError(t, err)
	assert.Equal(t, 7, int(p.Month))
	assert.Equal(t, 0, p.K)
	assert.Equal(t, "2020-01-01", p.Start.Format("2006-01-02"))
	assert.Equal(t, "2020-02-01", p.End.Format("2006-01-02"))
	assert.Equal(t, "Books", p.Category)

	defaults, err := (&Expectation{}).Params()
	require.NoError(t, err)
	assert.Equal(t, query.DefaultParams(), defaults)
}
