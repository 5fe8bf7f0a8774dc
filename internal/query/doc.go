// Package query implements the analytics queries over an entity snapshot.
//
// An Analyzer binds an engine.Executor (which decides the execution mode)
// and a discount policy. Every query is a pipeline over the snapshot's
// collections and returns the same result in either mode, up to
// floating-point reassociation of sums:
//
//	RevenueInMonth         orders in month M           -> Σ full prices
//	TopRecent              all orders                  -> IDs of the K most recent
//	DistinctPurchasers     all orders                  -> number of distinct buyers
//	DiscountInPeriod       orders in [start, end)      -> Σ policy discounts
//	SpendByCustomer        all orders                  -> customer ID -> Σ order totals
//	AvgPriceByCategory     all products                -> category -> mean full price
//	BuyersByCategory       products of one category    -> product ID -> buyer IDs
//	UtilizationByUntiered  orders of tier-0 customers  -> customer ID -> share of discounted items
//
// Group-by results only hold keys that received at least one contribution.
// A query that meets an order without a customer fails with a
// *model.MissingReferenceError and returns no partial result.
//
// Queries are also addressable by name through the registry (see Lookup and
// Analyzer.Run), which is how the CLI and the scenario harness drive them.
package query
