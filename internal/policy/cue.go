package policy

import (
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError reports an invalid policy definition, with the CUE source
// position when one is known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadCUE reads a CUE file holding a top-level `policy` struct and compiles
// it into a RateTable:
//
//	policy: {
//		max_rate: 0.3
//		tiers: { "1": 0.05, "2": 0.10 }
//		categories: { Tech: 0.10 }
//	}
func LoadCUE(path string) (*RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	policyVal := v.LookupPath(cue.ParsePath("policy"))
	if !policyVal.Exists() {
		return nil, &CompileError{Field: "policy", Message: "policy is required", Pos: v.Pos()}
	}
	return Compile(policyVal)
}

// Compile parses a CUE `policy` struct value into a RateTable.
// max_rate is required; tiers and categories are optional. Every rate must
// lie in [0, 1].
func Compile(v cue.Value) (*RateTable, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	maxVal := v.LookupPath(cue.ParsePath("max_rate"))
	if !maxVal.Exists() {
		return nil, &CompileError{Field: "max_rate", Message: "max_rate is required", Pos: v.Pos()}
	}
	maxRate, err := parseRate(maxVal, "max_rate")
	if err != nil {
		return nil, err
	}

	table := &RateTable{
		MaxRate:    maxRate,
		Tiers:      make(map[int]float64),
		Categories: make(map[string]float64),
	}

	if tiersVal := v.LookupPath(cue.ParsePath("tiers")); tiersVal.Exists() {
		iter, err := tiersVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			field := "tiers." + iter.Label()
			tier, err := strconv.Atoi(iter.Label())
			if err != nil || tier < 0 {
				return nil, &CompileError{Field: field, Message: "tier must be a non-negative integer", Pos: iter.Value().Pos()}
			}
			rate, err := parseRate(iter.Value(), field)
			if err != nil {
				return nil, err
			}
			table.Tiers[tier] = rate
		}
	}

	if catsVal := v.LookupPath(cue.ParsePath("categories")); catsVal.Exists() {
		iter, err := catsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			field := "categories." + iter.Label()
			rate, err := parseRate(iter.Value(), field)
			if err != nil {
				return nil, err
			}
			table.Categories[iter.Label()] = rate
		}
	}

	return table, nil
}

// parseRate reads a number in [0, 1].
func parseRate(v cue.Value, field string) (float64, error) {
	rate, err := v.Float64()
	if err != nil {
		return 0, &CompileError{Field: field, Message: "rate must be a number", Pos: v.Pos()}
	}
	if rate < 0 || rate > 1 {
		return 0, &CompileError{Field: field, Message: fmt.Sprintf("rate %v outside [0, 1]", rate), Pos: v.Pos()}
	}
	return rate, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
