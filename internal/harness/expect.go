package harness

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/pipeline"
	"github.com/roach88/tally/internal/query"
)

// decodeExpected decodes an expected value into the result type of the
// named query, so it can be compared with query.Equal.
func decodeExpected(name string, node *yaml.Node) (any, error) {
	switch name {
	case query.NameCounts:
		var v struct {
			Customers int64 `yaml:"customers"`
			Orders    int64 `yaml:"orders"`
			Products  int64 `yaml:"products"`
		}
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return model.Counts{Customers: v.Customers, Orders: v.Orders, Products: v.Products}, nil

	case query.NameRevenueInMonth, query.NameDiscountInPeriod:
		var v float64
		err := node.Decode(&v)
		return v, err

	case query.NameDistinctPurchasers:
		var v int64
		err := node.Decode(&v)
		return v, err

	case query.NameTopRecent:
		var ids []int64
		if err := node.Decode(&ids); err != nil {
			return nil, err
		}
		return pipeline.SetOf(ids...), nil

	case query.NameSpendByCustomer, query.NameUtilizationByUntiered:
		v := map[int64]float64{}
		err := node.Decode(&v)
		return v, err

	case query.NameAvgPriceByCategory:
		v := map[string]float64{}
		err := node.Decode(&v)
		return v, err

	case query.NameBuyersByCategory:
		var raw map[int64][]int64
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}
		v := make(map[int64]pipeline.Set[int64], len(raw))
		for k, ids := range raw {
			v[k] = pipeline.SetOf(ids...)
		}
		return v, nil

	default:
		return nil, fmt.Errorf("no expected-value decoder for query %q", name)
	}
}
