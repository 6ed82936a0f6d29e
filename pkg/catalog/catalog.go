package catalog

import "time"

// Platform identifiers. Every listing and every availability decision refers
// to exactly one of these.
const (
	PlatformAmazon    = "Amazon"
	PlatformBlinkit   = "Blinkit"
	PlatformZepto     = "Zepto"
	PlatformInstamart = "Instamart"
)

// Platforms returns the fixed platform set, in display order.
func Platforms() []string {
	return []string{PlatformAmazon, PlatformBlinkit, PlatformZepto, PlatformInstamart}
}

// IsKnownPlatform reports whether name belongs to the fixed platform set.
func IsKnownPlatform(name string) bool {
	switch name {
	case PlatformAmazon, PlatformBlinkit, PlatformZepto, PlatformInstamart:
		return true
	}
	return false
}

// Listing is the canonical product record all downstream logic consumes.
// One listing is one platform's offer for a product, produced by one search.
type Listing struct {
	Platform        string    `json:"platform"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	OriginalPrice   float64   `json:"original_price,omitempty"`
	DeliveryCharges float64   `json:"delivery_charges"`
	DeliveryTime    string    `json:"delivery_time"`
	URL             string    `json:"url"`
	ImageURL        string    `json:"image_url,omitempty"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	Discount        int       `json:"discount"`
	InStock         bool      `json:"in_stock"`
	Quantity        string    `json:"quantity"`
	SearchQuery     string    `json:"search_query"`
	AreaCode        string    `json:"area_code"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// TotalPrice is the unit price plus delivery charges.
func (l Listing) TotalPrice() float64 {
	return l.Price + l.DeliveryCharges
}

// MatchGroup is a set of listings believed to reference the same real-world
// product across platforms. Groups are ephemeral, produced per search.
type MatchGroup struct {
	Label    string    `json:"label,omitempty"`
	Listings []Listing `json:"listings"`
}

// PriceRange spans the cheapest and the most expensive listing of a result set.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Analysis is the price-trend summary computed over one search's listings.
// BestValue is nil when the listing set was empty.
type Analysis struct {
	BestValue       *Listing   `json:"best_value,omitempty"`
	PriceRange      PriceRange `json:"price_range"`
	Recommendations []string   `json:"recommendations"`
}
