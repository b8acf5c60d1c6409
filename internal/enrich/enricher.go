package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"surplus-restock-notifier/internal/cache"
	"surplus-restock-notifier/internal/model"
	"surplus-restock-notifier/internal/pool"
	"surplus-restock-notifier/internal/repository"
	"surplus-restock-notifier/pkg/joberror"
)

const (
	refurbishedMarker = "-3"
	usedMarker        = "-4"
)

// UsedSku derives the used-condition sku from a refurbished-condition one by
// swapping the condition marker. Returns an InvalidSku error when the input
// carries no refurbished marker.
func UsedSku(sku string) (string, error) {
	if !strings.Contains(sku, refurbishedMarker) {
		return "", joberror.InvalidSku(sku)
	}
	return strings.Replace(sku, refurbishedMarker, usedMarker, 1), nil
}

// Enricher maps pick events to component economics via source lookups, with an
// optional cache in front of the component repository.
type Enricher struct {
	components repository.ComponentRepository
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewEnricher creates an enricher. cache may be nil to disable caching.
func NewEnricher(components repository.ComponentRepository, c cache.Cache, cacheTTL time.Duration) *Enricher {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &Enricher{components: components, cache: c, cacheTTL: cacheTTL}
}

// lookup fetches a component by sku, through the cache when one is configured.
func (e *Enricher) lookup(ctx context.Context, sku string) (*model.Component, error) {
	if e.cache == nil {
		return e.components.ComponentBySku(ctx, sku)
	}

	data, err := e.cache.GetOrSet(ctx, sku, e.cacheTTL, func() ([]byte, error) {
		c, err := e.components.ComponentBySku(ctx, sku)
		if err != nil {
			return nil, err
		}
		return json.Marshal(c)
	})
	if err != nil {
		return nil, err
	}

	var c model.Component
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cached component %s: %w", sku, err)
	}
	return &c, nil
}

// EnrichOne builds the economics record for a single refurbished sku: one lookup
// on the refurbished side, one on the derived used side. A missing refurbished
// record is fatal for the item, not for the batch.
func (e *Enricher) EnrichOne(ctx context.Context, refurbishedSku string) (model.ComponentEconomics, error) {
	refurb, err := e.lookup(ctx, refurbishedSku)
	if errors.Is(err, repository.ErrComponentNotFound) {
		return model.ComponentEconomics{}, joberror.LookupNotFound(refurbishedSku)
	}
	if err != nil {
		return model.ComponentEconomics{}, err
	}

	usedSku, err := UsedSku(refurbishedSku)
	if err != nil {
		return model.ComponentEconomics{}, err
	}

	used, err := e.lookup(ctx, usedSku)
	if errors.Is(err, repository.ErrComponentNotFound) {
		return model.ComponentEconomics{}, joberror.LookupNotFound(usedSku)
	}
	if err != nil {
		return model.ComponentEconomics{}, err
	}

	return model.ComponentEconomics{
		Sku:                     used.Sku,
		Quantity:                used.Quantity,
		RetailPrice:             used.RetailPrice,
		RefurbishedSku:          refurbishedSku,
		RefurbishedRetailPrice:  refurb.RetailPrice,
		PotentialRevenuePerItem: refurb.RetailPrice.Sub(used.RetailPrice),
	}, nil
}

// Enrich fans out EnrichOne over the events with a fixed worker cap. The result
// slice matches the input in length and index order; a failed item leaves a zero
// slot and is reported in the returned failure list instead of shifting indices.
// The run fails only when every item fails.
func (e *Enricher) Enrich(ctx context.Context, events []model.PickEvent) ([]model.ComponentEconomics, []pool.ItemError, error) {
	results, failures := pool.Map(ctx, events, pool.DefaultLimit,
		func(ctx context.Context, i int, ev model.PickEvent) (model.ComponentEconomics, error) {
			return e.EnrichOne(ctx, ev.Sku)
		})

	for _, f := range failures {
		log.Printf("[Enricher] Lookup failed for %s: %v", events[f.Index].Sku, f.Err)
	}
	if len(events) > 0 && len(failures) == len(events) {
		return nil, failures, fmt.Errorf("all %d component lookups failed", len(events))
	}
	return results, failures, nil
}

// Successes filters the positional result slice down to the items that enriched
// cleanly, preserving input order.
func Successes(results []model.ComponentEconomics, failures []pool.ItemError) []model.ComponentEconomics {
	if len(failures) == 0 {
		return results
	}
	failed := make(map[int]bool, len(failures))
	for _, f := range failures {
		failed[f.Index] = true
	}
	out := make([]model.ComponentEconomics, 0, len(results)-len(failures))
	for i, r := range results {
		if !failed[i] {
			out = append(out, r)
		}
	}
	return out
}

// Classify keeps the economics records that represent real restock candidates:
// used-condition stock actually on hand.
func Classify(items []model.ComponentEconomics) []model.ComponentEconomics {
	out := make([]model.ComponentEconomics, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}
