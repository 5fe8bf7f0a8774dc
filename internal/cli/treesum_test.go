package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeSumCommand(t *testing.T) {
	out, _, err := execute(t, "tree-sum", sampleTree)
	require.NoError(t, err)
	assert.Contains(t, out, "structural: 28\n")
	assert.Contains(t, out, "fold:       28\n")
	assert.Contains(t, out, "tree fold:  28\n")
	assert.Contains(t, out, "nodes: 7, depth: 3")
}

func TestTreeSumCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "tree-sum", sampleTree, "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	data := resp.Data.(map[string]any)
	assert.Equal(t, 28.0, data["structural"])
	assert.Equal(t, 28.0, data["fold"])
	assert.Equal(t, 28.0, data["tree_fold"])
	assert.Equal(t, 7.0, data["size"])
}

func TestTreeSumCommand_Leaf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("value: -2.5\n"), 0644))

	out, _, err := execute(t, "tree-sum", path)
	require.NoError(t, err)
	assert.Contains(t, out, "structural: -2.5\n")
	assert.Contains(t, out, "nodes: 1, depth: 1")
}

func TestTreeSumCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "tree-sum", "testdata/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "tree file not found")

	_, _, err = execute(t, "tree-sum", sampleSnapshot)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load tree")
}
