// Package pipeline provides composable collection operations that run in
// either execution mode of an engine.Executor.
//
// Every operation is a thin engine.Reducer over a slice: Filter, Map and
// FlatMap concatenate per-partition slices in input order; SumBy and CountIf
// add partial totals; Distinct unions partial sets; GroupBy merges per-key
// partial aggregates; TopK merges per-partition best-k lists.
//
// Group-by reductions are pluggable through Mergeable partials:
//
//	Sum   - running total
//	Count - running count
//	Mean  - total and count, divided at the end
//	Set   - union of elements
//
// All callbacks may return an error, which aborts the whole operation.
// Callbacks must not mutate the items they are given.
package pipeline
