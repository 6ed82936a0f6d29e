// Package normalize maps heterogeneous platform records into the canonical
// listing shape. Every function here is total: malformed input degrades to
// documented defaults, never to an error.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms"
)

// Defaults applied when a raw field is missing or unparsable.
const (
	DefaultName         = "Product"
	DefaultDeliveryTime = "1-2 days"
	DefaultQuantity     = "1 unit"
)

var (
	numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
	digitsRe = regexp.MustCompile(`\d+`)
)

// Listing converts one platform's raw record into a canonical listing tagged
// with its source platform, query, and delivery area.
func Listing(platform, query, areaCode string, raw platforms.RawListing) catalog.Listing {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = DefaultName
	}

	price := ParsePrice(raw.PriceText)
	original := ParsePrice(raw.OriginalPriceText)

	l := catalog.Listing{
		Platform:        platform,
		Name:            name,
		Price:           price,
		OriginalPrice:   original,
		DeliveryCharges: ParsePrice(raw.DeliveryCharge),
		DeliveryTime:    defaultIfEmpty(raw.DeliveryTime, DefaultDeliveryTime),
		URL:             strings.TrimSpace(raw.URL),
		ImageURL:        strings.TrimSpace(raw.ImageURL),
		Rating:          ParseRating(raw.RatingText),
		ReviewCount:     ParseCount(raw.ReviewsText),
		InStock:         !raw.OutOfStock,
		Quantity:        defaultIfEmpty(raw.Quantity, DefaultQuantity),
		SearchQuery:     query,
		AreaCode:        areaCode,
		ScrapedAt:       time.Now().UTC(),
	}
	l.Discount = DiscountPercent(original, price)
	return l
}

// ParsePrice extracts a non-negative amount from free-form price text like
// "₹1,299.00" or "Rs. 45.50". Unparsable text yields 0.
func ParsePrice(text string) float64 {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return 0
	}
	// Indian storefronts use "1,299.00"; strip thousands separators first.
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	m := numberRe.FindString(cleaned)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ParseRating extracts a rating from text like "4.3 out of 5 stars",
// clamped to [0,5]. Unparsable text yields 0.
func ParseRating(text string) float64 {
	m := numberRe.FindString(text)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// ParseCount extracts a review count from text like "(1,024)". Unparsable
// text yields 0.
func ParseCount(text string) int {
	cleaned := strings.ReplaceAll(text, ",", "")
	m := digitsRe.FindString(cleaned)
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(m)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// DiscountPercent derives the discount from an original and a current price,
// rounded to the nearest integer and clamped to [0,100]. No discount is
// reported unless the original price is known and exceeds the current one.
func DiscountPercent(original, current float64) int {
	if original <= 0 || original <= current {
		return 0
	}
	d := int(math.Round((original - current) / original * 100))
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}

func defaultIfEmpty(s, def string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return def
}
