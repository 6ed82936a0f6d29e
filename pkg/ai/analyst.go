package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
)

// Analyst computes the price-trend summary over one search's listings.
// Implementations may fail; callers fall back to FallbackAnalysis.
type Analyst interface {
	AnalyzeListings(ctx context.Context, listings []catalog.Listing) (catalog.Analysis, error)
}

const analyzeSystemPrompt = `You are a price analysis expert for grocery/e-commerce listings.

For the listings you receive, weigh:
- Price variation across platforms
- Delivery charges on top of the unit price
- Rating and review count as a quality signal
- Price vs quantity trade-offs

Return ONLY JSON following this schema:
{
  "best_value_id": 0,
  "recommendations": ["short actionable sentence", "another one"]
}

best_value_id must be one of the input ids. Keep recommendations under four.`

type analyzeInput struct {
	Listings []analyzeInputItem `json:"listings"`
}

type analyzeInputItem struct {
	ID              int     `json:"id"`
	Platform        string  `json:"platform"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DeliveryCharges float64 `json:"delivery_charges"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"review_count"`
	Quantity        string  `json:"quantity"`
}

type analyzeOutput struct {
	BestValueID     *int     `json:"best_value_id"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeListings asks the collaborator to pick the best-value listing and
// write recommendations. The price range is always computed locally; the
// reply only contributes the pick and the prose, both validated.
func (c *Client) AnalyzeListings(ctx context.Context, listings []catalog.Listing) (catalog.Analysis, error) {
	if len(listings) == 0 {
		return catalog.Analysis{Recommendations: []string{}}, nil
	}

	payload := analyzeInput{}
	for i, l := range listings {
		payload.Listings = append(payload.Listings, analyzeInputItem{
			ID:              i,
			Platform:        l.Platform,
			Name:            l.Name,
			Price:           l.Price,
			DeliveryCharges: l.DeliveryCharges,
			Rating:          l.Rating,
			ReviewCount:     l.ReviewCount,
			Quantity:        l.Quantity,
		})
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return catalog.Analysis{}, err
	}

	content, err := c.complete(ctx, analyzeSystemPrompt, string(payloadJSON))
	if err != nil {
		return catalog.Analysis{}, err
	}

	var parsed analyzeOutput
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return catalog.Analysis{}, fmt.Errorf("unable to parse analysis response: %w", err)
	}

	analysis := catalog.Analysis{
		PriceRange:      ComputePriceRange(listings),
		Recommendations: []string{},
	}
	if parsed.BestValueID != nil && *parsed.BestValueID >= 0 && *parsed.BestValueID < len(listings) {
		best := listings[*parsed.BestValueID]
		analysis.BestValue = &best
	} else {
		best := listings[0]
		analysis.BestValue = &best
	}
	for _, r := range parsed.Recommendations {
		if r != "" {
			analysis.Recommendations = append(analysis.Recommendations, r)
		}
	}

	return analysis, nil
}

// ComputePriceRange returns the min and max unit price over listings, or
// {0,0} when there are none.
func ComputePriceRange(listings []catalog.Listing) catalog.PriceRange {
	if len(listings) == 0 {
		return catalog.PriceRange{}
	}
	pr := catalog.PriceRange{Min: listings[0].Price, Max: listings[0].Price}
	for _, l := range listings[1:] {
		if l.Price < pr.Min {
			pr.Min = l.Price
		}
		if l.Price > pr.Max {
			pr.Max = l.Price
		}
	}
	return pr
}

// FallbackAnalysis is the deterministic analyst fallback: the first listing
// as best value (absent when there are none), a zero price range, and no
// recommendations.
func FallbackAnalysis(listings []catalog.Listing) catalog.Analysis {
	analysis := catalog.Analysis{Recommendations: []string{}}
	if len(listings) > 0 {
		best := listings[0]
		analysis.BestValue = &best
	}
	return analysis
}
