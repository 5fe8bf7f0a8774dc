package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioEntities() ([]*Customer, []*Product, []*Order) {
	c1 := &Customer{ID: 1, Name: "C1", Tier: 0}
	c2 := &Customer{ID: 2, Name: "C2", Tier: 1}
	p1 := &Product{ID: 10, Name: "P1", Category: "Tech", FullPrice: 10}
	p2 := &Product{ID: 20, Name: "P2", Category: "Home", FullPrice: 5}
	o1 := &Order{ID: 100, OrderDate: Date(2021, time.March, 5), Customer: c1, Products: []*Product{p1}}
	o2 := &Order{ID: 200, OrderDate: Date(2021, time.February, 10), Customer: c2, Products: []*Product{p1, p2}}
	return []*Customer{c1, c2}, []*Product{p1, p2}, []*Order{o1, o2}
}

func TestNewSnapshot_LinksBackReferences(t *testing.T) {
	cs, ps, os := scenarioEntities()

	snap, err := NewSnapshot(cs, ps, os)
	require.NoError(t, err)

	p1, p2 := snap.Products[0], snap.Products[1]
	require.Len(t, p1.Orders, 2)
	assert.Equal(t, int64(100), p1.Orders[0].ID)
	assert.Equal(t, int64(200), p1.Orders[1].ID)
	require.Len(t, p2.Orders, 1)
	assert.Equal(t, int64(200), p2.Orders[0].ID)
}

func TestLink_RepeatedProductListedOnce(t *testing.T) {
	c := &Customer{ID: 1}
	p := &Product{ID: 10, FullPrice: 3}
	o := &Order{ID: 100, Customer: c, Products: []*Product{p, p}}

	snap, err := NewSnapshot([]*Customer{c}, []*Product{p}, []*Order{o})
	require.NoError(t, err)
	assert.Len(t, snap.Products[0].Orders, 1)
	total, err := o.Total()
	require.NoError(t, err)
	assert.Equal(t, 6.0, total, "each occurrence still counts toward the total")
}

func TestLink_ResolvesStubReferences(t *testing.T) {
	c := &Customer{ID: 1, Name: "real", Tier: 2}
	p := &Product{ID: 10, Category: "Tech", FullPrice: 4}
	o := &Order{ID: 100, Customer: &Customer{ID: 1}, Products: []*Product{{ID: 10}}}

	snap, err := NewSnapshot([]*Customer{c}, []*Product{p}, []*Order{o})
	require.NoError(t, err)
	assert.Same(t, c, snap.Orders[0].Customer)
	assert.Same(t, p, snap.Orders[0].Products[0])
	total, err := snap.Orders[0].Total()
	require.NoError(t, err)
	assert.Equal(t, 4.0, total)
}

func TestLink_Idempotent(t *testing.T) {
	cs, ps, os := scenarioEntities()
	snap, err := NewSnapshot(cs, ps, os)
	require.NoError(t, err)

	snap.Link()
	snap.Link()
	assert.Len(t, snap.Products[0].Orders, 2)
}

func TestValidate_OrderWithoutCustomer(t *testing.T) {
	p := &Product{ID: 10}
	o := &Order{ID: 100, Products: []*Product{p}}

	_, err := NewSnapshot(nil, []*Product{p}, []*Order{o})
	require.Error(t, err)
	assert.True(t, IsMissingReference(err))

	var mr *MissingReferenceError
	require.True(t, errors.As(err, &mr))
	assert.Equal(t, EntityOrder, mr.Entity)
	assert.Equal(t, int64(100), mr.ID)
	assert.Equal(t, EntityCustomer, mr.Ref)
	assert.Contains(t, err.Error(), "has no customer")
}

func TestValidate_DanglingIDs(t *testing.T) {
	o := &Order{ID: 100, Customer: &Customer{ID: 7}, Products: []*Product{{ID: 99}}}

	_, err := NewSnapshot(nil, nil, []*Order{o})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown customer 7")
	assert.Contains(t, err.Error(), "unknown product 99")
}

func TestValidate_InvalidEntities(t *testing.T) {
	c := &Customer{ID: 1}
	dup := &Customer{ID: 1}
	neg := &Product{ID: 10, FullPrice: -1}

	_, err := NewSnapshot([]*Customer{c, dup}, []*Product{neg}, nil)
	require.Error(t, err)

	var ie *InvalidEntityError
	require.True(t, errors.As(err, &ie))
	assert.Contains(t, err.Error(), "duplicate id")
	assert.Contains(t, err.Error(), "negative price")
	assert.False(t, IsMissingReference(err))
}

func TestValidate_Empty(t *testing.T) {
	snap, err := NewSnapshot(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, snap.Counts())
}

func TestOrder_Buyer(t *testing.T) {
	_, err := (&Order{ID: 5}).Buyer()
	assert.True(t, IsMissingReference(err))

	c := &Customer{ID: 1}
	got, err := (&Order{ID: 5, Customer: c}).Buyer()
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestInPeriod_HalfOpen(t *testing.T) {
	start := Date(2021, time.March, 1)
	end := Date(2021, time.April, 1)

	assert.True(t, InPeriod(start, start, end))
	assert.True(t, InPeriod(Date(2021, time.March, 31), start, end))
	assert.False(t, InPeriod(end, start, end))
	assert.False(t, InPeriod(Date(2021, time.February, 28), start, end))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2021-02-10")
	require.NoError(t, err)
	assert.Equal(t, Date(2021, time.February, 10), d)

	_, err = ParseDate("10/02/2021")
	assert.Error(t, err)
}

func TestLoadSnapshot_FromStaticRepositories(t *testing.T) {
	cs, ps, os := scenarioEntities()

	snap, err := LoadSnapshot(context.Background(),
		StaticRepository[*Customer](cs),
		StaticRepository[*Product](ps),
		StaticRepository[*Order](os),
	)
	require.NoError(t, err)
	assert.Equal(t, Counts{Customers: 2, Orders: 2, Products: 2}, snap.Counts())
}

type failingRepo[T any] struct{ err error }

func (r failingRepo[T]) FindAll(context.Context) ([]T, error) { return nil, r.err }

func TestLoadSnapshot_RepositoryError(t *testing.T) {
	boom := errors.New("boom")
	_, err := LoadSnapshot(context.Background(),
		StaticRepository[*Customer]{},
		failingRepo[*Product]{err: boom},
		StaticRepository[*Order]{},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load products")
}

func TestOrderItems_NilProduct(t *testing.T) {
	o := &Order{ID: 7, Products: []*Product{{ID: 1, FullPrice: 2}, nil}}

	items, err := o.Items()
	require.Error(t, err)
	assert.Nil(t, items)
	assert.True(t, IsMissingReference(err))
	assert.Contains(t, err.Error(), "order 7 has no product")

	total, err := o.Total()
	assert.True(t, IsMissingReference(err))
	assert.Equal(t, 0.0, total)
}
