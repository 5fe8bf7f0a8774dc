package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/model"
)

// SnapshotSpec is the YAML form of an entity snapshot. Orders reference
// their customer and products by ID.
type SnapshotSpec struct {
	Customers []CustomerSpec `yaml:"customers"`
	Products  []ProductSpec  `yaml:"products"`
	Orders    []OrderSpec    `yaml:"orders"`
}

// CustomerSpec describes one customer.
type CustomerSpec struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name,omitempty"`
	Tier int    `yaml:"tier,omitempty"`
}

// ProductSpec describes one product.
type ProductSpec struct {
	ID       int64   `yaml:"id"`
	Name     string  `yaml:"name,omitempty"`
	Category string  `yaml:"category"`
	Price    float64 `yaml:"price"`
}

// OrderSpec describes one order.
type OrderSpec struct {
	ID     int64  `yaml:"id"`
	Date   string `yaml:"date"`
	Status string `yaml:"status,omitempty"`

	// Customer is the buyer's ID. Zero means the order has no customer,
	// which fails validation.
	Customer int64 `yaml:"customer"`

	// Products lists product IDs; an ID may repeat.
	Products []int64 `yaml:"products,omitempty"`
}

// Build converts the description into a linked, validated snapshot.
func (s *SnapshotSpec) Build() (*model.Snapshot, error) {
	customers := make([]*model.Customer, len(s.Customers))
	for i, c := range s.Customers {
		customers[i] = &model.Customer{ID: c.ID, Name: c.Name, Tier: c.Tier}
	}

	products := make([]*model.Product, len(s.Products))
	for i, p := range s.Products {
		products[i] = &model.Product{ID: p.ID, Name: p.Name, Category: p.Category, FullPrice: p.Price}
	}

	orders := make([]*model.Order, len(s.Orders))
	for i, o := range s.Orders {
		date, err := model.ParseDate(o.Date)
		if err != nil {
			return nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		order := &model.Order{ID: o.ID, OrderDate: date, Status: o.Status}
		if o.Customer != 0 {
			order.Customer = &model.Customer{ID: o.Customer}
		}
		for _, id := range o.Products {
			order.Products = append(order.Products, &model.Product{ID: id})
		}
		orders[i] = order
	}

	return model.NewSnapshot(customers, products, orders)
}

// SpecFromSnapshot converts a snapshot back into its YAML form.
func SpecFromSnapshot(snap *model.Snapshot) *SnapshotSpec {
	spec := &SnapshotSpec{
		Customers: make([]CustomerSpec, len(snap.Customers)),
		Products:  make([]ProductSpec, len(snap.Products)),
		Orders:    make([]OrderSpec, len(snap.Orders)),
	}
	for i, c := range snap.Customers {
		spec.Customers[i] = CustomerSpec{ID: c.ID, Name: c.Name, Tier: c.Tier}
	}
	for i, p := range snap.Products {
		spec.Products[i] = ProductSpec{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.FullPrice}
	}
	for i, o := range snap.Orders {
		entry := OrderSpec{ID: o.ID, Date: o.OrderDate.Format(model.DateLayout), Status: o.Status}
		if o.Customer != nil {
			entry.Customer = o.Customer.ID
		}
		for _, p := range o.Products {
			entry.Products = append(entry.Products, p.ID)
		}
		spec.Orders[i] = entry
	}
	return spec
}

// LoadSnapshotFile reads a snapshot YAML file (customers, products and
// orders at the top level) and builds the snapshot.
func LoadSnapshotFile(path string) (*model.Snapshot, error) {
	var spec SnapshotSpec
	if err := decodeStrict(path, &spec); err != nil {
		return nil, err
	}
	snap, err := spec.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return snap, nil
}

// decodeStrict reads a YAML file into v, rejecting unknown fields
// (catches typos like "product:" vs "products:").
func decodeStrict(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}
	return nil
}
