package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	sampleSnapshot = "testdata/snapshot.yaml"
	sampleTree     = "testdata/tree.yaml"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse parses a JSON CLIResponse.
func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// importSample imports the sample snapshot into a fresh database and
// returns its path.
func importSample(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tally.db")
	_, _, err := execute(t, "import", "--db", dbPath, sampleSnapshot)
	require.NoError(t, err)
	return dbPath
}
