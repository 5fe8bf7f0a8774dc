package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/harness"
	"github.com/roach88/tally/internal/report"
)

func TestImportCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tally.db")
	out, _, err := execute(t, "import", "--db", dbPath, sampleSnapshot)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 customers, 2 products, 2 orders")
	assert.Contains(t, out, "snapshot 3e35cb07334e23407e4fd1e2132106a01d9e4ea0cc07bc3222d8d1f8840b8c2f")

	// Importing again replaces by ID.
	_, _, err = execute(t, "import", "--db", dbPath, sampleSnapshot)
	require.NoError(t, err)

	out, _, err = execute(t, "counts", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "customers: 2\norders:    2\nproducts:  2\n", out)

	out, _, err = execute(t, "query", "spend-by-customer", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "{\"1\":10,\"2\":15}\n", out)
}

func TestImportCommand_Errors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tally.db")

	_, _, err := execute(t, "import", sampleSnapshot)
	require.Error(t, err, "--db is required")

	_, _, err = execute(t, "import", "--db", dbPath, "testdata/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "import", "--db", dbPath, "testdata/dangling.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "MISSING_REFERENCE")
}

func TestExportCommand_RoundTrip(t *testing.T) {
	dbPath := importSample(t)
	outPath := filepath.Join(t.TempDir(), "export.yaml")

	_, _, err := execute(t, "export", "--db", dbPath, "-o", outPath)
	require.NoError(t, err)

	exported, err := harness.LoadSnapshotFile(outPath)
	require.NoError(t, err)
	original, err := harness.LoadSnapshotFile(sampleSnapshot)
	require.NoError(t, err)

	want, err := report.Fingerprint(original)
	require.NoError(t, err)
	got, err := report.Fingerprint(exported)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExportCommand_Stdout(t *testing.T) {
	dbPath := importSample(t)
	out, _, err := execute(t, "export", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "customers:")
	assert.Contains(t, out, "category: Tech")
	assert.Contains(t, out, "2021-03-05")
}

func TestExportCommand_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "none.db")
	_, _, err := execute(t, "export", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "export must not create a database")
}
