package store

import (
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/report"
	"github.com/roach88/tally/internal/testutil"
)

func TestLoadSnapshot_Empty(t *testing.T) {
	s := createTestStore(t)

	snap, err := s.LoadSnapshot(t.Context())
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	if got := snap.Counts(); got != (model.Counts{}) {
		t.Errorf("Counts() = %+v, want zero", got)
	}
	if snap.Orders == nil {
		t.Error("Orders should be an empty slice, not nil")
	}
}

func TestImport_RoundTrip(t *testing.T) {
	s := createSeededStore(t)

	snap, err := s.LoadSnapshot(t.Context())
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}

	want := model.Counts{Customers: 2, Orders: 2, Products: 2}
	if got := snap.Counts(); got != want {
		t.Errorf("Counts() = %+v, want %+v", got, want)
	}

	o := snap.Orders[1]
	if o.ID != 200 {
		t.Fatalf("orders not in id order: second is %d", o.ID)
	}
	if !o.OrderDate.Equal(model.Date(2021, time.February, 10)) {
		t.Errorf("OrderDate = %v", o.OrderDate)
	}
	if o.Customer != snap.Customers[1] {
		t.Error("order customer not linked to the snapshot's customer")
	}
	if got := orderProductIDs(o); !slices.Equal(got, []int64{1, 2}) {
		t.Errorf("products = %v, want [1 2]", got)
	}
	if got := len(snap.Products[0].Orders); got != 2 {
		t.Errorf("P1 back-references = %d, want 2", got)
	}
}

func TestImport_FingerprintPreserved(t *testing.T) {
	s := createTestStore(t)
	original := testutil.RandomSnapshot(5, testutil.SnapshotSize{Customers: 8, Products: 6, Orders: 40})

	if err := s.Import(t.Context(), original); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	loaded, err := s.LoadSnapshot(t.Context())
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}

	want, err := report.Fingerprint(original)
	if err != nil {
		t.Fatal(err)
	}
	got, err := report.Fingerprint(loaded)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("fingerprint changed across import: %s != %s", got, want)
	}
}

func TestImport_Idempotent(t *testing.T) {
	s := createSeededStore(t)

	if err := s.Import(t.Context(), testutil.SampleSnapshot()); err != nil {
		t.Fatalf("second Import() failed: %v", err)
	}

	var items int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM order_products").Scan(&items); err != nil {
		t.Fatal(err)
	}
	if items != 3 {
		t.Errorf("order_products rows = %d, want 3", items)
	}
}

func TestImport_RepeatedProduct(t *testing.T) {
	s := createTestStore(t)

	c := &model.Customer{ID: 1}
	p := &model.Product{ID: 7, Category: "Home", FullPrice: 2.5}
	o := &model.Order{ID: 1, OrderDate: model.Date(2021, time.June, 1), Customer: c, Products: []*model.Product{p, p, p}}
	snap, err := model.NewSnapshot([]*model.Customer{c}, []*model.Product{p}, []*model.Order{o})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Import(t.Context(), snap); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}

	loaded, err := s.LoadSnapshot(t.Context())
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	if got, err := loaded.Orders[0].Total(); err != nil || got != 7.5 {
		t.Errorf("Total() = %v, %v, want 7.5", got, err)
	}
	if got := len(loaded.Products[0].Orders); got != 1 {
		t.Errorf("back-references = %d, want 1", got)
	}
}

func TestImport_UnknownCustomerRollsBack(t *testing.T) {
	s := createTestStore(t)

	c := &model.Customer{ID: 1}
	o := &model.Order{ID: 1, OrderDate: model.Date(2021, time.June, 1), Customer: &model.Customer{ID: 99}}
	snap := &model.Snapshot{Customers: []*model.Customer{c}, Orders: []*model.Order{o}}

	if err := s.Import(t.Context(), snap); err == nil {
		t.Fatal("expected foreign key failure")
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM customers").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("customers = %d after failed import, want 0", n)
	}
}

func TestImport_OrderWithoutCustomer(t *testing.T) {
	s := createTestStore(t)

	snap := &model.Snapshot{Orders: []*model.Order{{ID: 3, OrderDate: model.Date(2021, time.June, 1)}}}
	err := s.Import(t.Context(), snap)
	if !model.IsMissingReference(err) {
		t.Errorf("expected MissingReferenceError, got %v", err)
	}
}

func TestImport_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.Import(t.Context(), testutil.SampleSnapshot()); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	customers, err := s.Customers().FindAll(t.Context())
	if err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if len(customers) != 2 || customers[0].Name != "C1" || customers[1].Tier != 1 {
		t.Errorf("unexpected customers after reopen: %+v", customers)
	}
}
