// Package availability decides whether a platform can deliver to a given
// area code before any scraping work is spent on it.
package availability

import "github.com/IshwariGadewar/SmartBasket/pkg/catalog"

// coverage maps each platform to the delivery-area codes it serves. The data
// is static for now; swapping in live per-platform serviceability APIs only
// needs to keep IsAvailable's contract.
var coverage = map[string]map[string]struct{}{
	catalog.PlatformAmazon:    areaSet("110001", "110002", "110003", "400001", "400002", "400003"),
	catalog.PlatformBlinkit:   areaSet("110001", "110002", "400001", "400002"),
	catalog.PlatformZepto:     areaSet("110001", "110002", "110003", "400001", "400002", "400003"),
	catalog.PlatformInstamart: areaSet("110001", "110002", "400001", "400002"),
}

func areaSet(codes ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// IsAvailable reports whether platform delivers to areaCode. Unknown
// platforms are simply unavailable, never an error. Safe for concurrent use:
// coverage is read-only after init.
func IsAvailable(platform, areaCode string) bool {
	areas, ok := coverage[platform]
	if !ok {
		return false
	}
	_, ok = areas[areaCode]
	return ok
}

// Snapshot returns the availability of every platform in the fixed set for
// the given area code.
func Snapshot(areaCode string) map[string]bool {
	out := make(map[string]bool, len(coverage))
	for _, p := range catalog.Platforms() {
		out[p] = IsAvailable(p, areaCode)
	}
	return out
}

// Partition splits the requested platforms into available and unavailable
// sets for areaCode, preserving request order. Platforms outside the fixed
// set land in unavailable.
func Partition(requested []string, areaCode string) (available, unavailable []string) {
	available = []string{}
	unavailable = []string{}
	for _, p := range requested {
		if IsAvailable(p, areaCode) {
			available = append(available, p)
		} else {
			unavailable = append(unavailable, p)
		}
	}
	return available, unavailable
}
