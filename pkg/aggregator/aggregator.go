// Package aggregator fans platform adapters out concurrently for one search
// and joins their outcomes. A platform failing never hides another
// platform's results.
package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/IshwariGadewar/SmartBasket/pkg/availability"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms"
)

const defaultAdapterTimeout = 25 * time.Second

// Sourced is a raw listing tagged with the platform that produced it.
type Sourced struct {
	Platform string
	Raw      platforms.RawListing
}

// Result is the joined outcome of one aggregation pass. Listings holds the
// union of every platform that succeeded; Failures records per-platform
// causes for the ones that did not.
type Result struct {
	Listings    []Sourced
	Available   []string
	Unavailable []string
	Failures    map[string]error
}

type Aggregator struct {
	Registry *platforms.Registry
	// AdapterTimeout bounds each adapter call; a slow platform is treated as
	// a failure for that platform only. Defaults to 25s.
	AdapterTimeout time.Duration
}

func New(reg *platforms.Registry) *Aggregator {
	return &Aggregator{Registry: reg}
}

// Aggregate gates the requested platforms by delivery area, invokes the
// available ones concurrently, and waits for all of them before returning.
// An empty request or a fully-unavailable one yields an empty result, not an
// error.
func (a *Aggregator) Aggregate(ctx context.Context, query string, requested []string, areaCode string) Result {
	avail, unavail := availability.Partition(requested, areaCode)

	res := Result{
		Listings:    []Sourced{},
		Available:   avail,
		Unavailable: unavail,
		Failures:    make(map[string]error),
	}
	if len(avail) == 0 {
		return res
	}

	timeout := a.AdapterTimeout
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, platform := range avail {
		wg.Add(1)
		go func(platform string) {
			defer wg.Done()

			fetcher, ok := a.Registry.Lookup(platform)
			if !ok {
				mu.Lock()
				res.Failures[platform] = fmt.Errorf("no adapter registered for %s", platform)
				mu.Unlock()
				return
			}

			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			raws, err := fetcher.Fetch(fetchCtx, query, areaCode)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures[platform] = err
				return
			}
			for _, raw := range raws {
				res.Listings = append(res.Listings, Sourced{Platform: platform, Raw: raw})
			}
		}(platform)
	}
	wg.Wait()

	return res
}
