// Package report renders query results and snapshots as canonical JSON.
//
// Canonical output is byte-stable: the same result always encodes to the
// same bytes, whichever execution mode produced it and in whatever order
// its maps were filled. That makes results diffable, golden-testable and
// hashable.
//
// Encode maps query result types onto plain JSON values:
//
//	float64, int64                 -> number
//	pipeline.Set[int64]            -> ascending array
//	map[int64]V                    -> object keyed by decimal ID
//	map[string]float64             -> object
//	model.Counts                   -> {"customers","orders","products"}
//
// Fingerprint identifies a snapshot by content, so a stored result can be
// tied to the exact data it was computed from.
package report
