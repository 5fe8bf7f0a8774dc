package store

import (
	"context"
	"fmt"

	"github.com/roach88/tally/internal/model"
)

// CustomerRepository serves customers from the store.
type CustomerRepository struct {
	s *Store
}

// ProductRepository serves products from the store.
type ProductRepository struct {
	s *Store
}

// OrderRepository serves orders from the store.
//
// Returned orders reference their customer and products through stubs that
// carry only an ID; Snapshot.Link resolves them.
type OrderRepository struct {
	s *Store
}

// Customers returns the customer repository.
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{s: s} }

// Products returns the product repository.
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

// Orders returns the order repository.
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }

// LoadSnapshot reads all three collections and assembles a linked,
// validated snapshot.
func (s *Store) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return model.LoadSnapshot(ctx, s.Customers(), s.Products(), s.Orders())
}

// FindAll returns every customer ordered by id.
// Returns an empty slice (not nil) if there are none.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	rows, err := r.s.db.QueryContext(ctx, `
		SELECT id, name, tier
		FROM customers
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []*model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Tier); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

// FindAll returns every product ordered by id.
// Returns an empty slice (not nil) if there are none.
func (r *ProductRepository) FindAll(ctx context.Context) ([]*model.Product, error) {
	rows, err := r.s.db.QueryContext(ctx, `
		SELECT id, name, category, full_price
		FROM products
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.FullPrice); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// FindAll returns every order ordered by id, with its product list in
// stored position order.
// Returns an empty slice (not nil) if there are none.
func (r *OrderRepository) FindAll(ctx context.Context) ([]*model.Order, error) {
	orders, err := r.readOrders(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.readOrderProducts(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// readOrders reads the order rows. The rows are fully drained before
// returning: the store holds a single connection.
func (r *OrderRepository) readOrders(ctx context.Context) ([]*model.Order, error) {
	rows, err := r.s.db.QueryContext(ctx, `
		SELECT id, order_date, status, customer_id
		FROM orders
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []*model.Order{}
	for rows.Next() {
		var (
			o          model.Order
			date       string
			customerID int64
		)
		if err := rows.Scan(&o.ID, &date, &o.Status, &customerID); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if o.OrderDate, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("order %d: %w", o.ID, err)
		}
		o.Customer = &model.Customer{ID: customerID}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// readOrderProducts attaches product stubs to orders.
func (r *OrderRepository) readOrderProducts(ctx context.Context, orders []*model.Order) error {
	byID := make(map[int64]*model.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	rows, err := r.s.db.QueryContext(ctx, `
		SELECT order_id, product_id
		FROM order_products
		ORDER BY order_id ASC, position ASC
	`)
	if err != nil {
		return fmt.Errorf("query order products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID, productID int64
		if err := rows.Scan(&orderID, &productID); err != nil {
			return fmt.Errorf("scan order product: %w", err)
		}
		o, ok := byID[orderID]
		if !ok {
			return fmt.Errorf("order product row references unknown order %d", orderID)
		}
		o.Products = append(o.Products, &model.Product{ID: productID})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order products: %w", err)
	}
	return nil
}
