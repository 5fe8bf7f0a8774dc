package query

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/tally/internal/model"
)

// Params holds the arguments of every parameterized query. Each query reads
// only the fields it needs.
type Params struct {
	Month    time.Month
	K        int
	Start    time.Time
	End      time.Time
	Category string
}

// DefaultParams returns February, K = 5, the period March 2021 and the Tech
// category.
func DefaultParams() Params {
	return Params{
		Month:    time.February,
		K:        5,
		Start:    model.Date(2021, time.March, 1),
		End:      model.Date(2021, time.April, 1),
		Category: TechCategory,
	}
}

// Param names, as listed in Spec.Params.
const (
	ParamMonth    = "month"
	ParamK        = "k"
	ParamStart    = "start"
	ParamEnd      = "end"
	ParamCategory = "category"
)

// Spec describes one registered query.
type Spec struct {
	// Name is the query's registry name.
	Name string

	// Description is a one-line summary for help output.
	Description string

	// Params names the Params fields the query reads.
	Params []string

	run func(ctx context.Context, a *Analyzer, snap *model.Snapshot, p Params) (any, error)
}

// registry lists the queries in presentation order.
var registry = []Spec{
	{
		Name:        NameCounts,
		Description: "number of customers, orders and products",
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, _ Params) (any, error) {
			return a.Counts(ctx, snap)
		},
	},
	{
		Name:        NameRevenueInMonth,
		Description: "total full price of orders placed in a month of any year",
		Params:      []string{ParamMonth},
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, p Params) (any, error) {
			return a.RevenueInMonth(ctx, snap, p.Month)
		},
	},
	{
		Name:        NameTopRecent,
		Description: "IDs of the k most recent orders",
		Params:      []string{ParamK},
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, p Params) (any, error) {
			return a.TopRecent(ctx, snap, p.K)
		},
	},
	{
		Name:        NameDistinctPurchasers,
		Description: "number of distinct customers with an order",
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, _ Params) (any, error) {
			return a.DistinctPurchasers(ctx, snap)
		},
	},
	{
		Name:        NameDiscountInPeriod,
		Description: "total discount granted on orders placed in [start, end)",
		Params:      []string{ParamStart, ParamEnd},
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, p Params) (any, error) {
			return a.DiscountInPeriod(ctx, snap, p.Start, p.End)
		},
	},
	{
		Name:        NameSpendByCustomer,
		Description: "total full price ordered, per customer",
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, _ Params) (any, error) {
			return a.SpendByCustomer(ctx, snap)
		},
	},
	{
		Name:        NameAvgPriceByCategory,
		Description: "mean product full price, per category",
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, _ Params) (any, error) {
			return a.AvgPriceByCategory(ctx, snap)
		},
	},
	{
		Name:        NameBuyersByCategory,
		Description: "customers who ordered each product of a category",
		Params:      []string{ParamCategory},
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, p Params) (any, error) {
			return a.BuyersByCategory(ctx, snap, p.Category)
		},
	},
	{
		Name:        NameUtilizationByUntiered,
		Description: "share of discounted items, per untiered customer",
		run: func(ctx context.Context, a *Analyzer, snap *model.Snapshot, _ Params) (any, error) {
			return a.UtilizationByUntiered(ctx, snap)
		},
	},
}

// Specs returns every registered query in presentation order.
func Specs() []Spec {
	return append([]Spec(nil), registry...)
}

// Names returns the registered query names in presentation order.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the query registered under name.
func Lookup(name string) (Spec, error) {
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Spec{}, &Error{
		Code:    ErrCodeUnknownQuery,
		Query:   name,
		Message: fmt.Sprintf("unknown query, expected one of %v", Names()),
	}
}

// Validate checks the parameters the query reads.
func (s Spec) Validate(p Params) error {
	for _, name := range s.Params {
		var msg string
		switch name {
		case ParamMonth:
			if p.Month < time.January || p.Month > time.December {
				msg = fmt.Sprintf("month %d outside 1..12", int(p.Month))
			}
		case ParamK:
			if p.K < 0 {
				msg = fmt.Sprintf("k %d is negative", p.K)
			}
		case ParamEnd:
			if p.End.Before(p.Start) {
				msg = fmt.Sprintf("end %s before start %s", p.End.Format(model.DateLayout), p.Start.Format(model.DateLayout))
			}
		}
		if msg != "" {
			return &Error{Code: ErrCodeInvalidParam, Query: s.Name, Message: msg}
		}
	}
	return nil
}

// Run validates p and runs the named query. The result has the named
// method's concrete result type.
func (a *Analyzer) Run(ctx context.Context, name string, snap *model.Snapshot, p Params) (any, error) {
	spec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(p); err != nil {
		return nil, err
	}
	return spec.run(ctx, a, snap, p)
}

// Outcome is the result of one query in a batch run.
type Outcome struct {
	Query  string
	Result any
}

// RunAll runs every registered query with p, in presentation order, and
// stops at the first error.
func (a *Analyzer) RunAll(ctx context.Context, snap *model.Snapshot, p Params) ([]Outcome, error) {
	out := make([]Outcome, 0, len(registry))
	for _, s := range registry {
		result, err := a.Run(ctx, s.Name, snap, p)
		if err != nil {
			return nil, err
		}
		out = append(out, Outcome{Query: s.Name, Result: result})
	}
	return out, nil
}
