package store

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a store holding the sample snapshot.
func createSeededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	if err := s.Import(t.Context(), testutil.SampleSnapshot()); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	return s
}

// orderProductIDs returns the product IDs of an order, in list order.
func orderProductIDs(o *model.Order) []int64 {
	ids := make([]int64, len(o.Products))
	for i, p := range o.Products {
		ids[i] = p.ID
	}
	return ids
}

func contains(slice []string, item string) bool {
	return slices.Contains(slice, item)
}
