package query

import (
	"context"
	"time"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/pipeline"
)

// Query names, as used by the registry, the CLI and scenario files.
const (
	NameCounts                = "counts"
	NameRevenueInMonth        = "revenue-in-month"
	NameTopRecent             = "top-recent"
	NameDistinctPurchasers    = "distinct-purchasers"
	NameDiscountInPeriod      = "discount-in-period"
	NameSpendByCustomer       = "spend-by-customer"
	NameAvgPriceByCategory    = "avg-price-by-category"
	NameBuyersByCategory      = "buyers-by-category"
	NameUtilizationByUntiered = "utilization-by-untiered"
)

// TechCategory is the category BuyersByTechProduct reports on.
const TechCategory = "Tech"

// Counts returns the number of customers, orders and products.
func (a *Analyzer) Counts(ctx context.Context, snap *model.Snapshot) (model.Counts, error) {
	return observe(ctx, a, NameCounts, func(ctx context.Context) (model.Counts, error) {
		var counts model.Counts
		var err error
		if counts.Customers, err = pipeline.CountIf(ctx, a.exec, snap.Customers, always[*model.Customer]); err != nil {
			return model.Counts{}, err
		}
		if counts.Orders, err = pipeline.CountIf(ctx, a.exec, snap.Orders, always[*model.Order]); err != nil {
			return model.Counts{}, err
		}
		if counts.Products, err = pipeline.CountIf(ctx, a.exec, snap.Products, always[*model.Product]); err != nil {
			return model.Counts{}, err
		}
		return counts, nil
	})
}

// RevenueInMonth sums the full prices of every product in every order
// placed in month, in any year.
func (a *Analyzer) RevenueInMonth(ctx context.Context, snap *model.Snapshot, month time.Month) (float64, error) {
	return observe(ctx, a, NameRevenueInMonth, func(ctx context.Context) (float64, error) {
		return pipeline.SumBy(ctx, a.exec, snap.Orders, func(o *model.Order) (float64, error) {
			if o.OrderDate.Month() != month {
				return 0, nil
			}
			return o.Total()
		})
	})
}

// TopRecent returns the IDs of the k most recently placed orders. Orders
// sharing a date are taken in snapshot order.
func (a *Analyzer) TopRecent(ctx context.Context, snap *model.Snapshot, k int) (pipeline.Set[int64], error) {
	return observe(ctx, a, NameTopRecent, func(ctx context.Context) (pipeline.Set[int64], error) {
		recent, err := pipeline.TopK(ctx, a.exec, snap.Orders, k, func(x, y *model.Order) bool {
			return x.OrderDate.After(y.OrderDate)
		})
		if err != nil {
			return nil, err
		}
		ids := make(pipeline.Set[int64], len(recent))
		for _, o := range recent {
			ids[o.ID] = struct{}{}
		}
		return ids, nil
	})
}

// DistinctPurchasers counts the distinct customers that placed an order.
func (a *Analyzer) DistinctPurchasers(ctx context.Context, snap *model.Snapshot) (int64, error) {
	return observe(ctx, a, NameDistinctPurchasers, func(ctx context.Context) (int64, error) {
		buyers, err := pipeline.Distinct(ctx, a.exec, snap.Orders, buyerID)
		if err != nil {
			return 0, err
		}
		return int64(buyers.Len()), nil
	})
}

// DiscountInPeriod sums the policy discount over every (order, product)
// pair of the orders placed in [start, end).
func (a *Analyzer) DiscountInPeriod(ctx context.Context, snap *model.Snapshot, start, end time.Time) (float64, error) {
	return observe(ctx, a, NameDiscountInPeriod, func(ctx context.Context) (float64, error) {
		return pipeline.SumBy(ctx, a.exec, snap.Orders, func(o *model.Order) (float64, error) {
			if !model.InPeriod(o.OrderDate, start, end) {
				return 0, nil
			}
			c, err := o.Buyer()
			if err != nil {
				return 0, err
			}
			items, err := o.Items()
			if err != nil {
				return 0, err
			}
			var total float64
			for _, p := range items {
				total += a.policy.Discount(c, p)
			}
			return total, nil
		})
	})
}

// SpendByCustomer maps each purchasing customer's ID to the total full price
// of their orders.
func (a *Analyzer) SpendByCustomer(ctx context.Context, snap *model.Snapshot) (map[int64]float64, error) {
	return observe(ctx, a, NameSpendByCustomer, func(ctx context.Context) (map[int64]float64, error) {
		groups, err := pipeline.GroupByKey(ctx, a.exec, snap.Orders, buyerID,
			func(o *model.Order) (pipeline.Sum, error) {
				total, err := o.Total()
				return pipeline.Sum(total), err
			},
		)
		if err != nil {
			return nil, err
		}
		return pipeline.MapValues(groups, func(s pipeline.Sum) float64 { return float64(s) }), nil
	})
}

// AvgPriceByCategory maps each category to the mean full price of its
// products.
func (a *Analyzer) AvgPriceByCategory(ctx context.Context, snap *model.Snapshot) (map[string]float64, error) {
	return observe(ctx, a, NameAvgPriceByCategory, func(ctx context.Context) (map[string]float64, error) {
		groups, err := pipeline.GroupByKey(ctx, a.exec, snap.Products,
			func(p *model.Product) (string, error) { return p.Category, nil },
			func(p *model.Product) (pipeline.Mean, error) { return pipeline.MeanOf(p.FullPrice), nil },
		)
		if err != nil {
			return nil, err
		}
		return pipeline.MapValues(groups, pipeline.Mean.Value), nil
	})
}

// BuyersByCategory maps the ID of each product in category to the IDs of
// the customers whose orders contain it. A product nobody ordered maps to
// an empty set.
func (a *Analyzer) BuyersByCategory(ctx context.Context, snap *model.Snapshot, category string) (map[int64]pipeline.Set[int64], error) {
	return observe(ctx, a, NameBuyersByCategory, func(ctx context.Context) (map[int64]pipeline.Set[int64], error) {
		return pipeline.GroupBy(ctx, a.exec, snap.Products,
			func(p *model.Product, emit pipeline.Emit[int64, pipeline.Set[int64]]) error {
				if p.Category != category {
					return nil
				}
				buyers := make(pipeline.Set[int64], len(p.Orders))
				for _, o := range p.Orders {
					if o == nil {
						return &model.MissingReferenceError{Entity: model.EntityProduct, ID: p.ID, Ref: model.EntityOrder}
					}
					id, err := buyerID(o)
					if err != nil {
						return err
					}
					buyers[id] = struct{}{}
				}
				emit(p.ID, buyers)
				return nil
			},
		)
	})
}

// BuyersByTechProduct is BuyersByCategory for TechCategory.
func (a *Analyzer) BuyersByTechProduct(ctx context.Context, snap *model.Snapshot) (map[int64]pipeline.Set[int64], error) {
	return a.BuyersByCategory(ctx, snap, TechCategory)
}

// UtilizationByUntiered maps each untiered customer's ID to the fraction of
// their purchased items that carried a discount. Each product occurrence in
// an order counts once; customers whose orders hold no products are absent.
func (a *Analyzer) UtilizationByUntiered(ctx context.Context, snap *model.Snapshot) (map[int64]float64, error) {
	return observe(ctx, a, NameUtilizationByUntiered, func(ctx context.Context) (map[int64]float64, error) {
		groups, err := pipeline.GroupBy(ctx, a.exec, snap.Orders,
			func(o *model.Order, emit pipeline.Emit[int64, pipeline.Mean]) error {
				c, err := o.Buyer()
				if err != nil {
					return err
				}
				if !c.IsUntiered() {
					return nil
				}
				items, err := o.Items()
				if err != nil {
					return err
				}
				for _, p := range items {
					used := 0.0
					if a.policy.Discount(c, p) > 0 {
						used = 1
					}
					emit(c.ID, pipeline.MeanOf(used))
				}
				return nil
			},
		)
		if err != nil {
			return nil, err
		}
		return pipeline.MapValues(groups, pipeline.Mean.Value), nil
	})
}

func buyerID(o *model.Order) (int64, error) {
	c, err := o.Buyer()
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func always[T any](T) (bool, error) { return true, nil }
