// Package engine implements the execution-mode wrapper and the fork-join
// scheduler shared by every aggregation.
//
// ARCHITECTURE:
//
// One Primitive:
// Every collection-oriented aggregation (filter, map, sum, group-by, top-k,
// distinct) is expressed as a Reducer: a zero accumulator, a step that folds
// one element in, and an associative merge. Reduce runs a Reducer in the
// Executor's mode.
//
// Sequential Mode:
// A single accumulator is threaded left to right on the calling goroutine.
// No goroutines, no suspension points.
//
// Parallel Mode:
//  1. The input range is halved recursively until a partition holds at most
//     Threshold elements
//  2. Each leaf partition is reduced on its own goroutine; an errgroup
//     bounded to Workers goroutines acts as the worker pool
//  3. Partials are merged pairwise along the split order
//
// Merge order is fixed by the split, so a parallel run is deterministic for
// a given (input, Threshold) even for merges that are only associative.
// The first error cancels the remaining partitions and is returned; there
// is never a partial result.
//
// CRITICAL PATTERNS:
//
// No Shared Accumulators:
// A partial is owned by exactly one goroutine until it is merged. Merge may
// reuse the left operand's storage. Inputs are read-only.
//
// Run Identity:
// Each query run carries a run ID (UUIDv7 by default) in its context. Reduce
// logs one debug line per reduction under that ID, so every reduction of a
// query can be traced back to it.
package engine
