// Package harness runs conformance scenarios against the query layer.
//
// A scenario is a YAML file holding a small entity snapshot, an optional
// discount policy and a list of expected query results:
//
//	name: sample
//	description: two customers, two products, two orders
//	policy: policy.cue        # optional, relative to the scenario file
//	snapshot:
//	  customers:
//	    - {id: 1, name: C1, tier: 0}
//	  products:
//	    - {id: 1, name: P1, category: Tech, price: 10}
//	  orders:
//	    - {id: 100, date: 2021-03-05, customer: 1, products: [1]}
//	expect:
//	  - query: revenue-in-month
//	    month: 3
//	    value: 10
//
// Run evaluates every expectation in both execution modes. An expectation
// passes when the two modes agree and match the expected value. Unset
// parameters take the query defaults (query.DefaultParams).
//
// The same YAML shapes load standalone snapshots (LoadSnapshotFile) and
// numeric trees (LoadTree) for the CLI.
package harness
