package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/tree"
)

func TestLoadTree(t *testing.T) {
	tr, err := LoadTree("testdata/tree.yaml")
	require.NoError(t, err)

	assert.Equal(t, 7, tree.Size(tr))
	assert.Equal(t, 3, tree.Depth(tr))

	structural, err := tree.SumStructural(tr)
	require.NoError(t, err)
	assert.Equal(t, 28.0, structural)
	assert.Equal(t, 28.0, tree.SumFold(tr))
	assert.Equal(t, 28.0, tree.SumTreeFold(tr))
}

func TestTreeSpec_BuildKeepsChildOrder(t *testing.T) {
	spec := TreeSpec{Value: 0, Children: []TreeSpec{{Value: 1}, {Value: 2}, {Value: 3}}}
	tr := spec.Build()

	var values []float64
	for _, c := range tr.Children().ToSlice() {
		values = append(values, c.Value())
	}
	assert.Equal(t, []float64{1, 2, 3}, values)
}

func TestLoadTree_UnknownField(t *testing.T) {
	_, err := LoadTree("testdata/snapshot.yaml")
	assert.Error(t, err)
}
