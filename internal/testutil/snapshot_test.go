package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSnapshot(t *testing.T) {
	snap := SampleSnapshot()
	require.NoError(t, snap.Validate())

	counts := snap.Counts()
	assert.Equal(t, int64(2), counts.Customers)
	assert.Equal(t, int64(2), counts.Products)
	assert.Equal(t, int64(2), counts.Orders)

	// Back-references are linked.
	assert.Len(t, snap.Products[0].Orders, 2)
	assert.Len(t, snap.Products[1].Orders, 1)

	assert.NotSame(t, snap.Customers[0], SampleSnapshot().Customers[0], "fresh entities per call")
}

func TestRandomSnapshot_Deterministic(t *testing.T) {
	size := SnapshotSize{Customers: 20, Products: 15, Orders: 300}
	a := RandomSnapshot(7, size)
	b := RandomSnapshot(7, size)

	require.NoError(t, a.Validate())
	require.Len(t, a.Orders, 300)
	for i := range a.Orders {
		assert.Equal(t, a.Orders[i].ID, b.Orders[i].ID)
		assert.Equal(t, a.Orders[i].OrderDate, b.Orders[i].OrderDate)
		assert.Equal(t, a.Orders[i].Customer.ID, b.Orders[i].Customer.ID)
		assert.Equal(t, len(a.Orders[i].Products), len(b.Orders[i].Products))
	}
}

func TestRandomSnapshot_NoOrders(t *testing.T) {
	snap := RandomSnapshot(1, SnapshotSize{Customers: 3, Products: 3})
	assert.Empty(t, snap.Orders)
	for _, p := range snap.Products {
		assert.Empty(t, p.Orders)
	}
}

func TestEmptySnapshot(t *testing.T) {
	snap := EmptySnapshot()
	assert.Equal(t, int64(0), snap.Counts().Orders)
}
