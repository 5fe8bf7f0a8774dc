package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/roach88/tally/internal/model"
)

// SampleSnapshot returns the two-customer, two-product, two-order snapshot
// used across packages:
//
//	C1 (tier 0), C2 (tier 1)
//	P1 Tech 10.00, P2 Home 5.00
//	O100 2021-03-05 C1 [P1]
//	O200 2021-02-10 C2 [P1 P2]
//
// Every call builds fresh entities, so callers may not observe each other's
// snapshots.
func SampleSnapshot() *model.Snapshot {
	c1 := &model.Customer{ID: 1, Name: "C1", Tier: 0}
	c2 := &model.Customer{ID: 2, Name: "C2", Tier: 1}
	p1 := &model.Product{ID: 1, Name: "P1", Category: "Tech", FullPrice: 10}
	p2 := &model.Product{ID: 2, Name: "P2", Category: "Home", FullPrice: 5}
	o1 := &model.Order{ID: 100, OrderDate: model.Date(2021, time.March, 5), Customer: c1, Products: []*model.Product{p1}}
	o2 := &model.Order{ID: 200, OrderDate: model.Date(2021, time.February, 10), Customer: c2, Products: []*model.Product{p1, p2}}

	return mustSnapshot(
		[]*model.Customer{c1, c2},
		[]*model.Product{p1, p2},
		[]*model.Order{o1, o2},
	)
}

// EmptySnapshot returns a snapshot with no entities.
func EmptySnapshot() *model.Snapshot {
	return mustSnapshot(nil, nil, nil)
}

// SnapshotSize controls how many entities RandomSnapshot generates.
type SnapshotSize struct {
	Customers int
	Products  int
	Orders    int

	// MaxProducts bounds the products per order. Zero means 4.
	MaxProducts int
}

// randomCategories are the categories RandomSnapshot draws from.
var randomCategories = []string{"Tech", "Home", "Books", "Garden"}

// RandomSnapshot generates a valid snapshot from seed.
//
// The same seed and size always yield the same snapshot. Prices are
// multiples of 0.25 so sums stay exact in binary floating point. Orders may
// hold no products, and may hold the same product more than once. Customers
// cover tiers 0 to 3; dates span 2020 and 2021.
func RandomSnapshot(seed int64, size SnapshotSize) *model.Snapshot {
	r := rand.New(rand.NewSource(seed))
	maxProducts := size.MaxProducts
	if maxProducts <= 0 {
		maxProducts = 4
	}

	customers := make([]*model.Customer, size.Customers)
	for i := range customers {
		customers[i] = &model.Customer{
			ID:   int64(i + 1),
			Name: fmt.Sprintf("customer-%d", i+1),
			Tier: r.Intn(4),
		}
	}

	products := make([]*model.Product, size.Products)
	for i := range products {
		products[i] = &model.Product{
			ID:        int64(i + 1),
			Name:      fmt.Sprintf("product-%d", i+1),
			Category:  randomCategories[r.Intn(len(randomCategories))],
			FullPrice: float64(r.Intn(400)) / 4,
		}
	}

	start := model.Date(2020, time.January, 1)
	orders := make([]*model.Order, size.Orders)
	for i := range orders {
		o := &model.Order{
			ID:        int64(1000 + i),
			OrderDate: start.AddDate(0, 0, r.Intn(731)),
			Status:    "delivered",
		}
		if len(customers) > 0 {
			o.Customer = customers[r.Intn(len(customers))]
		}
		if len(products) > 0 {
			n := r.Intn(maxProducts + 1)
			for j := 0; j < n; j++ {
				o.Products = append(o.Products, products[r.Intn(len(products))])
			}
		}
		orders[i] = o
	}

	return mustSnapshot(customers, products, orders)
}

func mustSnapshot(customers []*model.Customer, products []*model.Product, orders []*model.Order) *model.Snapshot {
	snap, err := model.NewSnapshot(customers, products, orders)
	if err != nil {
		panic(fmt.Sprintf("testutil: invalid snapshot: %v", err))
	}
	return snap
}
