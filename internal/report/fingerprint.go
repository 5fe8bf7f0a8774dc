package report

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/roach88/tally/internal/model"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainSnapshot = "tally/snapshot/v1"
	DomainResult   = "tally/result/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content hash of a snapshot.
//
// Entities are hashed in ID order with references by ID, so the
// fingerprint does not depend on the order a repository returned them in.
// Back-references are derived data and are not hashed.
func Fingerprint(snap *model.Snapshot) (string, error) {
	canonical, err := MarshalCanonical(SnapshotDocument(snap))
	if err != nil {
		return "", fmt.Errorf("fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// ResultDigest computes a content hash of a query result, scoped to the
// query name.
func ResultDigest(name string, result any) (string, error) {
	v, err := Encode(result)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", name, err)
	}
	canonical, err := MarshalCanonical(map[string]any{"query": name, "result": v})
	if err != nil {
		return "", fmt.Errorf("digest %s: failed to marshal: %w", name, err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// SnapshotDocument returns the JSON document form of a snapshot: entities
// sorted by ID, orders referencing customers and products by ID.
func SnapshotDocument(snap *model.Snapshot) map[string]any {
	customers := slices.SortedFunc(slices.Values(snap.Customers), func(a, b *model.Customer) int { return cmp.Compare(a.ID, b.ID) })
	products := slices.SortedFunc(slices.Values(snap.Products), func(a, b *model.Product) int { return cmp.Compare(a.ID, b.ID) })
	orders := slices.SortedFunc(slices.Values(snap.Orders), func(a, b *model.Order) int { return cmp.Compare(a.ID, b.ID) })

	cs := make([]any, len(customers))
	for i, c := range customers {
		cs[i] = map[string]any{
			"id":   c.ID,
			"name": c.Name,
			"tier": c.Tier,
		}
	}

	ps := make([]any, len(products))
	for i, p := range products {
		ps[i] = map[string]any{
			"id":         p.ID,
			"name":       p.Name,
			"category":   p.Category,
			"full_price": p.FullPrice,
		}
	}

	ords := make([]any, len(orders))
	for i, o := range orders {
		items := make([]any, len(o.Products))
		for j, p := range o.Products {
			items[j] = p.ID
		}
		doc := map[string]any{
			"id":       o.ID,
			"date":     o.OrderDate.Format(model.DateLayout),
			"products": items,
		}
		if o.Customer != nil {
			doc["customer"] = o.Customer.ID
		}
		if o.Status != "" {
			doc["status"] = o.Status
		}
		ords[i] = doc
	}

	return map[string]any{
		"customers": cs,
		"products":  ps,
		"orders":    ords,
	}
}
