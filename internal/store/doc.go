// Package store provides the SQLite-backed entity repository.
//
// The store holds customers, products, orders and the order/product
// association, and serves each collection through a model.Repository.
// Snapshots loaded from the store are linked and validated by
// model.LoadSnapshot exactly like in-memory ones.
//
// Import is how data gets in: it upserts a whole snapshot in one
// transaction. Nothing in the query path writes to the store.
//
// # Deterministic Reads
//
//   - Every collection is read ORDER BY id ASC
//   - Order products are read ORDER BY order_id ASC, position ASC
//
// so a given database always yields the same snapshot, in the same order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
