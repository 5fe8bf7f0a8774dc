package model

import (
	"errors"
	"fmt"
)

// Snapshot is the immutable, fully loaded set of entities a query runs over.
//
// Build snapshots with NewSnapshot or LoadSnapshot; both link back-references
// and validate. Queries only read a snapshot, so it can be shared across
// goroutines without synchronization.
type Snapshot struct {
	Customers []*Customer
	Products  []*Product
	Orders    []*Order
}

// NewSnapshot assembles a snapshot, links references (see Link) and
// validates it.
//
// The slices are copied; the entities themselves are not.
func NewSnapshot(customers []*Customer, products []*Product, orders []*Order) (*Snapshot, error) {
	s := &Snapshot{
		Customers: append([]*Customer(nil), customers...),
		Products:  append([]*Product(nil), products...),
		Orders:    append([]*Order(nil), orders...),
	}
	s.Link()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Link resolves each order's customer and product references to the
// snapshot's own entities by ID, then rebuilds Product.Orders from the
// orders' product lists. Repositories may therefore hand back orders that
// reference stub entities carrying only an ID.
//
// References to IDs that are not in the snapshot are left in place for
// Validate to report. Back-references are appended in snapshot order, each
// order at most once per product. Link is idempotent.
func (s *Snapshot) Link() {
	customers := make(map[int64]*Customer, len(s.Customers))
	for _, c := range s.Customers {
		if _, dup := customers[c.ID]; !dup {
			customers[c.ID] = c
		}
	}
	products := make(map[int64]*Product, len(s.Products))
	for _, p := range s.Products {
		if _, dup := products[p.ID]; !dup {
			products[p.ID] = p
		}
		p.Orders = nil
	}

	for _, o := range s.Orders {
		if o.Customer != nil {
			if c, ok := customers[o.Customer.ID]; ok {
				o.Customer = c
			}
		}
		seen := make(map[*Product]bool, len(o.Products))
		for i, p := range o.Products {
			if p == nil {
				continue
			}
			if canonical, ok := products[p.ID]; ok {
				o.Products[i] = canonical
				p = canonical
			}
			if seen[p] {
				continue
			}
			seen[p] = true
			p.Orders = append(p.Orders, o)
		}
	}
}

// Validate checks the snapshot invariants and returns every violation joined
// into one error. Dangling references are *MissingReferenceError; bad field
// values and duplicate IDs are *InvalidEntityError.
func (s *Snapshot) Validate() error {
	var errs []error

	customers := make(map[int64]*Customer, len(s.Customers))
	for _, c := range s.Customers {
		if _, dup := customers[c.ID]; dup {
			errs = append(errs, &InvalidEntityError{Entity: EntityCustomer, ID: c.ID, Message: "duplicate id"})
			continue
		}
		if c.Tier < 0 {
			errs = append(errs, &InvalidEntityError{Entity: EntityCustomer, ID: c.ID, Message: fmt.Sprintf("negative tier %d", c.Tier)})
		}
		customers[c.ID] = c
	}

	products := make(map[int64]*Product, len(s.Products))
	for _, p := range s.Products {
		if _, dup := products[p.ID]; dup {
			errs = append(errs, &InvalidEntityError{Entity: EntityProduct, ID: p.ID, Message: "duplicate id"})
			continue
		}
		if p.FullPrice < 0 {
			errs = append(errs, &InvalidEntityError{Entity: EntityProduct, ID: p.ID, Message: fmt.Sprintf("negative price %v", p.FullPrice)})
		}
		products[p.ID] = p
	}

	orders := make(map[int64]*Order, len(s.Orders))
	for _, o := range s.Orders {
		if _, dup := orders[o.ID]; dup {
			errs = append(errs, &InvalidEntityError{Entity: EntityOrder, ID: o.ID, Message: "duplicate id"})
			continue
		}
		orders[o.ID] = o

		if o.Customer == nil {
			errs = append(errs, &MissingReferenceError{Entity: EntityOrder, ID: o.ID, Ref: EntityCustomer})
		} else if customers[o.Customer.ID] != o.Customer {
			errs = append(errs, &MissingReferenceError{Entity: EntityOrder, ID: o.ID, Ref: EntityCustomer, RefID: o.Customer.ID})
		}

		for _, p := range o.Products {
			switch {
			case p == nil:
				errs = append(errs, &MissingReferenceError{Entity: EntityOrder, ID: o.ID, Ref: EntityProduct})
			case products[p.ID] != p:
				errs = append(errs, &MissingReferenceError{Entity: EntityOrder, ID: o.ID, Ref: EntityProduct, RefID: p.ID})
			}
		}
	}

	for _, p := range s.Products {
		for _, o := range p.Orders {
			if o == nil || orders[o.ID] != o {
				refID := int64(0)
				if o != nil {
					refID = o.ID
				}
				errs = append(errs, &MissingReferenceError{Entity: EntityProduct, ID: p.ID, Ref: EntityOrder, RefID: refID})
			}
		}
	}

	return errors.Join(errs...)
}

// Counts is the number of entities of each kind.
type Counts struct {
	Customers int64 `json:"customers"`
	Orders    int64 `json:"orders"`
	Products  int64 `json:"products"`
}

// Counts returns the size of each collection.
func (s *Snapshot) Counts() Counts {
	return Counts{
		Customers: int64(len(s.Customers)),
		Orders:    int64(len(s.Orders)),
		Products:  int64(len(s.Products)),
	}
}
