package enrich

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"surplus-restock-notifier/internal/cache"
	"surplus-restock-notifier/internal/model"
	"surplus-restock-notifier/internal/repository"
	"surplus-restock-notifier/pkg/joberror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeComponents serves component rows from a map and counts lookups.
type fakeComponents struct {
	rows    map[string]model.Component
	lookups int64
}

func (f *fakeComponents) ComponentBySku(ctx context.Context, sku string) (*model.Component, error) {
	atomic.AddInt64(&f.lookups, 1)
	c, ok := f.rows[sku]
	if !ok {
		return nil, repository.ErrComponentNotFound
	}
	return &c, nil
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func componentPair(sku string, usedQty int64, usedPrice, refurbPrice string) map[string]model.Component {
	used, _ := UsedSku(sku)
	return map[string]model.Component{
		sku:  {Sku: sku, Quantity: 0, RetailPrice: price(refurbPrice)},
		used: {Sku: used, Quantity: usedQty, RetailPrice: price(usedPrice)},
	}
}

func TestUsedSku(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"WIDGET-100-3", "WIDGET-100-4", false},
		{"AB-3", "AB-4", false},
		{"AB-3-EXTRA", "AB-4-EXTRA", false},
		{"WIDGET-100-2", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := UsedSku(tt.in)
		if tt.wantErr {
			assert.True(t, joberror.IsCode(err, "INVALID_SKU"), "sku %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestEnrichOne(t *testing.T) {
	src := &fakeComponents{rows: componentPair("CPU-550-3", 7, "40.00", "65.50")}
	e := NewEnricher(src, nil, 0)

	got, err := e.EnrichOne(context.Background(), "CPU-550-3")
	require.NoError(t, err)
	assert.Equal(t, "CPU-550-4", got.Sku)
	assert.Equal(t, "CPU-550-3", got.RefurbishedSku)
	assert.EqualValues(t, 7, got.Quantity)
	assert.True(t, got.PotentialRevenuePerItem.Equal(price("25.50")))
}

func TestEnrichOne_MissingRefurbished(t *testing.T) {
	src := &fakeComponents{rows: map[string]model.Component{}}
	e := NewEnricher(src, nil, 0)

	_, err := e.EnrichOne(context.Background(), "CPU-550-3")
	assert.True(t, joberror.IsCode(err, "LOOKUP_NOT_FOUND"))
}

func TestEnrich_OrderAndIsolation(t *testing.T) {
	rows := map[string]model.Component{}
	for k, v := range componentPair("AAA-3", 5, "10.00", "20.00") {
		rows[k] = v
	}
	for k, v := range componentPair("CCC-3", 2, "30.00", "45.00") {
		rows[k] = v
	}
	// BBB-3 has no component rows at all; its slot must fail without shifting others.
	src := &fakeComponents{rows: rows}
	e := NewEnricher(src, nil, 0)

	events := []model.PickEvent{
		{Sku: "AAA-3"}, {Sku: "BBB-3"}, {Sku: "CCC-3"},
	}
	results, failures, err := e.Enrich(context.Background(), events)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Len(t, failures, 1)

	assert.Equal(t, 1, failures[0].Index)
	assert.Equal(t, "AAA-3", results[0].RefurbishedSku)
	assert.Zero(t, results[1].RefurbishedSku)
	assert.Equal(t, "CCC-3", results[2].RefurbishedSku)

	ok := Successes(results, failures)
	require.Len(t, ok, 2)
	assert.Equal(t, "AAA-3", ok[0].RefurbishedSku)
	assert.Equal(t, "CCC-3", ok[1].RefurbishedSku)
}

func TestEnrich_AllFailedIsRunError(t *testing.T) {
	src := &fakeComponents{rows: map[string]model.Component{}}
	e := NewEnricher(src, nil, 0)

	events := []model.PickEvent{{Sku: "AAA-3"}, {Sku: "BBB-3"}}
	_, failures, err := e.Enrich(context.Background(), events)
	assert.Error(t, err)
	assert.Len(t, failures, 2)
}

func TestEnrich_CacheDeduplicatesLookups(t *testing.T) {
	src := &fakeComponents{rows: componentPair("CPU-550-3", 7, "40.00", "65.50")}
	e := NewEnricher(src, cache.NewMemoryCache(), time.Minute)

	for i := 0; i < 3; i++ {
		got, err := e.EnrichOne(context.Background(), "CPU-550-3")
		require.NoError(t, err)
		assert.Equal(t, "CPU-550-4", got.Sku)
	}
	// One lookup per side; the two repeats are served from cache.
	assert.EqualValues(t, 2, atomic.LoadInt64(&src.lookups))
}

func TestClassify(t *testing.T) {
	items := []model.ComponentEconomics{
		{Sku: "A-4", Quantity: 0},
		{Sku: "B-4", Quantity: 5},
		{Sku: "C-4", Quantity: -1},
	}
	got := Classify(items)
	require.Len(t, got, 1)
	assert.Equal(t, "B-4", got[0].Sku)
}
