package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/tally/internal/model"
)

// Import writes every entity of snap in one transaction.
//
// Rows are upserted by ID, so importing the same snapshot twice leaves the
// database unchanged. An imported order's product list replaces the stored
// one. Entities already in the store but absent from snap are kept.
//
// Foreign keys are enforced: an order whose customer or product is neither
// in snap nor already stored fails the whole import.
func (s *Store) Import(ctx context.Context, snap *model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import: begin: %w", err)
	}
	defer tx.Rollback()

	if err := importCustomers(ctx, tx, snap.Customers); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := importProducts(ctx, tx, snap.Products); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := importOrders(ctx, tx, snap.Orders); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import: commit: %w", err)
	}
	return nil
}

func importCustomers(ctx context.Context, tx *sql.Tx, customers []*model.Customer) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO customers (id, name, tier)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, tier = excluded.tier
	`)
	if err != nil {
		return fmt.Errorf("prepare customers: %w", err)
	}
	defer stmt.Close()

	for _, c := range customers {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Tier); err != nil {
			return fmt.Errorf("write customer %d: %w", c.ID, err)
		}
	}
	return nil
}

func importProducts(ctx context.Context, tx *sql.Tx, products []*model.Product) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, name, category, full_price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			full_price = excluded.full_price
	`)
	if err != nil {
		return fmt.Errorf("prepare products: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Category, p.FullPrice); err != nil {
			return fmt.Errorf("write product %d: %w", p.ID, err)
		}
	}
	return nil
}

func importOrders(ctx context.Context, tx *sql.Tx, orders []*model.Order) error {
	orderStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO orders (id, order_date, status, customer_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			order_date = excluded.order_date,
			status = excluded.status,
			customer_id = excluded.customer_id
	`)
	if err != nil {
		return fmt.Errorf("prepare orders: %w", err)
	}
	defer orderStmt.Close()

	clearStmt, err := tx.PrepareContext(ctx, `DELETE FROM order_products WHERE order_id = ?`)
	if err != nil {
		return fmt.Errorf("prepare order products: %w", err)
	}
	defer clearStmt.Close()

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_products (order_id, position, product_id)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare order products: %w", err)
	}
	defer itemStmt.Close()

	for _, o := range orders {
		c, err := o.Buyer()
		if err != nil {
			return err
		}
		if _, err := orderStmt.ExecContext(ctx, o.ID, o.OrderDate.Format(model.DateLayout), o.Status, c.ID); err != nil {
			return fmt.Errorf("write order %d: %w", o.ID, err)
		}
		if _, err := clearStmt.ExecContext(ctx, o.ID); err != nil {
			return fmt.Errorf("clear order %d products: %w", o.ID, err)
		}
		for i, p := range o.Products {
			if p == nil {
				return &model.MissingReferenceError{Entity: model.EntityOrder, ID: o.ID, Ref: model.EntityProduct}
			}
			if _, err := itemStmt.ExecContext(ctx, o.ID, i, p.ID); err != nil {
				return fmt.Errorf("write order %d product %d: %w", o.ID, p.ID, err)
			}
		}
	}
	return nil
}
