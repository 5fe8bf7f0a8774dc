package report

import (
	"fmt"
	"strconv"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/pipeline"
)

// Encode converts a query result into a value MarshalCanonical accepts.
func Encode(result any) (any, error) {
	switch r := result.(type) {
	case float64, int64, int, string, bool:
		return r, nil
	case model.Counts:
		return map[string]any{
			"customers": r.Customers,
			"orders":    r.Orders,
			"products":  r.Products,
		}, nil
	case pipeline.Set[int64]:
		return idArray(r), nil
	case map[int64]float64:
		out := make(map[string]any, len(r))
		for k, v := range r {
			out[idKey(k)] = v
		}
		return out, nil
	case map[string]float64:
		out := make(map[string]any, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out, nil
	case map[int64]pipeline.Set[int64]:
		out := make(map[string]any, len(r))
		for k, v := range r {
			out[idKey(k)] = idArray(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported result type: %T", result)
	}
}

// Canonical encodes result and marshals it to canonical JSON.
func Canonical(result any) ([]byte, error) {
	v, err := Encode(result)
	if err != nil {
		return nil, err
	}
	return MarshalCanonical(v)
}

func idArray(s pipeline.Set[int64]) []any {
	ids := pipeline.Sorted(s)
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
