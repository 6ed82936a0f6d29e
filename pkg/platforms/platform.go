package platforms

import (
	"context"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
)

// MaxCandidates bounds how many raw listings a single adapter may return for
// one query. Anything past the first few results is noise for comparison.
const MaxCandidates = 5

// RawListing carries one platform's extracted fields before normalization.
// Everything numeric stays textual here; the normalizer owns parsing and
// defaulting, so extraction never has to fail on a malformed page.
type RawListing struct {
	Name              string
	PriceText         string
	OriginalPriceText string
	DeliveryCharge    string
	DeliveryTime      string
	URL               string
	ImageURL          string
	RatingText        string
	ReviewsText       string
	Quantity          string
	OutOfStock        bool
}

// Fetcher defines the single capability the aggregator depends on: fetch
// candidate listings for a query in a delivery area. Implementations
// encapsulate one platform's access method and field mapping, must bound
// their own work to MaxCandidates, and must be safe to invoke concurrently.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, query, areaCode string) ([]RawListing, error)
}

// Registry maps platform identifiers to their fetcher implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds a registry from the given fetchers, keyed by Name().
func NewRegistry(fetchers ...Fetcher) *Registry {
	m := make(map[string]Fetcher, len(fetchers))
	for _, f := range fetchers {
		m[f.Name()] = f
	}
	return &Registry{fetchers: m}
}

// Lookup returns the fetcher for a platform identifier, if one is registered.
func (r *Registry) Lookup(platform string) (Fetcher, bool) {
	f, ok := r.fetchers[platform]
	return f, ok
}

// Names returns the registered platform identifiers in fixed-set order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.fetchers))
	for _, p := range catalog.Platforms() {
		if _, ok := r.fetchers[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
