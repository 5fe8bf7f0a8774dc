package model

import (
	"fmt"
	"time"
)

// DateLayout is the textual form of an order date (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Customer is a purchasing customer.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// Tier is the membership tier; 0 means no membership.
	Tier int `json:"tier"`
}

// IsUntiered reports whether the customer holds no membership tier.
func (c *Customer) IsUntiered() bool {
	return c.Tier == 0
}

// Product is a catalogue item.
type Product struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	FullPrice float64 `json:"full_price"`

	// Orders lists every order the product appears in. Populated by
	// Snapshot.Link; an order holding the product twice is listed once.
	Orders []*Order `json:"-"`
}

// Order is a placed order.
type Order struct {
	ID        int64     `json:"id"`
	OrderDate time.Time `json:"order_date"`
	Status    string    `json:"status,omitempty"`

	// Customer is the purchasing customer. Never nil in a valid snapshot.
	Customer *Customer `json:"-"`

	// Products is the ordered product list. A product may repeat; each
	// occurrence counts independently.
	Products []*Product `json:"-"`
}

// Buyer returns the order's customer, or a MissingReferenceError if the
// order has none.
func (o *Order) Buyer() (*Customer, error) {
	if o.Customer == nil {
		return nil, &MissingReferenceError{Entity: EntityOrder, ID: o.ID, Ref: EntityCustomer}
	}
	return o.Customer, nil
}

// Items returns the order's products, or a MissingReferenceError if any
// entry is nil.
func (o *Order) Items() ([]*Product, error) {
	for _, p := range o.Products {
		if p == nil {
			return nil, &MissingReferenceError{Entity: EntityOrder, ID: o.ID, Ref: EntityProduct}
		}
	}
	return o.Products, nil
}

// Total returns the sum of the full prices of every product occurrence.
func (o *Order) Total() (float64, error) {
	items, err := o.Items()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, p := range items {
		total += p.FullPrice
	}
	return total, nil
}

// Date returns a civil date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// InPeriod reports whether d lies in the half-open range [start, end).
func InPeriod(d, start, end time.Time) bool {
	return !d.Before(start) && d.Before(end)
}
