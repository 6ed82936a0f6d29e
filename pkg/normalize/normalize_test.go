package normalize

import (
	"testing"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms"
)

func TestListingDefaultsForEmptyRecord(t *testing.T) {
	l := Listing(catalog.PlatformAmazon, "banana", "110001", platforms.RawListing{})

	if l.Name != DefaultName {
		t.Errorf("name = %q, want %q", l.Name, DefaultName)
	}
	if l.Price != 0 {
		t.Errorf("price = %v, want 0", l.Price)
	}
	if l.DeliveryCharges != 0 {
		t.Errorf("delivery charges = %v, want 0", l.DeliveryCharges)
	}
	if l.DeliveryTime != DefaultDeliveryTime {
		t.Errorf("delivery time = %q, want %q", l.DeliveryTime, DefaultDeliveryTime)
	}
	if l.Quantity != DefaultQuantity {
		t.Errorf("quantity = %q, want %q", l.Quantity, DefaultQuantity)
	}
	if l.Rating != 0 || l.ReviewCount != 0 || l.Discount != 0 {
		t.Errorf("rating/reviews/discount = %v/%v/%v, want zeros", l.Rating, l.ReviewCount, l.Discount)
	}
	if !l.InStock {
		t.Error("expected in stock by default")
	}
	if l.Platform != catalog.PlatformAmazon || l.SearchQuery != "banana" || l.AreaCode != "110001" {
		t.Errorf("tagging wrong: %s / %s / %s", l.Platform, l.SearchQuery, l.AreaCode)
	}
	if l.ScrapedAt.IsZero() {
		t.Error("expected a capture timestamp")
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"₹1,299.00", 1299},
		{"1,299", 1299},
		{"89", 89},
		{"Rs. 45.50", 45.5},
		{"", 0},
		{"free", 0},
		{"  79  ", 79},
	}
	for _, tc := range tests {
		if got := ParsePrice(tc.in); got != tc.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"4.3 out of 5 stars", 4.3},
		{"5", 5},
		{"9.9", 5}, // clamp
		{"", 0},
		{"no rating", 0},
	}
	for _, tc := range tests {
		if got := ParseRating(tc.in); got != tc.want {
			t.Errorf("ParseRating(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseCount(t *testing.T) {
	if got := ParseCount("(1,024)"); got != 1024 {
		t.Errorf("ParseCount = %d, want 1024", got)
	}
	if got := ParseCount(""); got != 0 {
		t.Errorf("ParseCount empty = %d, want 0", got)
	}
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		original, current float64
		want              int
	}{
		{100, 80, 20},
		{100, 100, 0},
		{0, 50, 0},   // no reference price
		{80, 100, 0}, // price went up
		{100, 0, 100},
		{3, 2, 33}, // rounded
	}
	for _, tc := range tests {
		if got := DiscountPercent(tc.original, tc.current); got != tc.want {
			t.Errorf("DiscountPercent(%v, %v) = %d, want %d", tc.original, tc.current, got, tc.want)
		}
	}
}
