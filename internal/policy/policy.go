// Package policy provides discount policies: pure functions from a
// (customer, product) pair to a non-negative discount amount.
//
// Queries treat a Policy as opaque. Implementations must be deterministic and
// free of side effects, since the parallel executor calls them from many
// goroutines at once.
package policy

import (
	"math"

	"github.com/roach88/tally/internal/model"
)

// Policy computes the discount a customer receives on a product.
type Policy interface {
	Discount(c *model.Customer, p *model.Product) float64
}

// Func adapts an ordinary function to a Policy.
type Func func(c *model.Customer, p *model.Product) float64

// Discount calls f.
func (f Func) Discount(c *model.Customer, p *model.Product) float64 {
	return f(c, p)
}

// None is the policy that never grants a discount.
var None Policy = Func(func(*model.Customer, *model.Product) float64 { return 0 })

// RateTable grants a fraction of the product's full price, made of a
// per-tier rate plus a per-category rate, capped at MaxRate:
//
//	discount = FullPrice × clamp(Tiers[tier] + Categories[category], 0, MaxRate)
//
// Tiers or categories missing from the table contribute 0.
type RateTable struct {
	MaxRate    float64
	Tiers      map[int]float64
	Categories map[string]float64
}

// Discount implements Policy.
func (t *RateTable) Discount(c *model.Customer, p *model.Product) float64 {
	return p.FullPrice * t.Rate(c, p)
}

// Rate returns the discount fraction for the pair.
func (t *RateTable) Rate(c *model.Customer, p *model.Product) float64 {
	rate := t.Tiers[c.Tier] + t.Categories[p.Category]
	return math.Max(0, math.Min(rate, t.MaxRate))
}

// Default returns the built-in table: members get 5% per tier level up to
// tier 3, Tech products carry an extra 10%, and no discount exceeds 30%.
func Default() *RateTable {
	return &RateTable{
		MaxRate: 0.30,
		Tiers: map[int]float64{
			1: 0.05,
			2: 0.10,
			3: 0.15,
		},
		Categories: map[string]float64{
			"Tech": 0.10,
		},
	}
}
