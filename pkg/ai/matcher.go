package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
)

// Matcher groups listings that represent the same real-world product across
// platforms. Implementations may fail; callers fall back to GroupByPlatform.
type Matcher interface {
	MatchListings(ctx context.Context, query string, listings []catalog.Listing) ([]catalog.MatchGroup, error)
}

const matchSystemPrompt = `You group grocery/e-commerce listings that refer to the same underlying product across delivery platforms.

For the listings you receive, consider:
- Product names and descriptions
- Quantities and units (1kg vs 2x500g is still the same product)
- The same product under different packaging
- Brand variations and misspellings

Return ONLY JSON following this schema:
{
  "groups": [
    {"label": "short product label", "ids": [0, 3]}
  ]
}

Every input id must appear in exactly one group. Never invent ids.`

type matchInput struct {
	Query    string           `json:"query"`
	Listings []matchInputItem `json:"listings"`
}

type matchInputItem struct {
	ID       int     `json:"id"`
	Platform string  `json:"platform"`
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Price    float64 `json:"price"`
}

type matchOutput struct {
	Groups []struct {
		Label string `json:"label"`
		IDs   []int  `json:"ids"`
	} `json:"groups"`
}

// MatchListings asks the collaborator for equivalence groups. The reply is
// merged defensively: out-of-range and duplicate ids are dropped, and any
// listing the reply forgot lands in its own singleton group, so the output
// is always a partition of the input.
func (c *Client) MatchListings(ctx context.Context, query string, listings []catalog.Listing) ([]catalog.MatchGroup, error) {
	if len(listings) == 0 {
		return []catalog.MatchGroup{}, nil
	}

	payload := matchInput{Query: query}
	for i, l := range listings {
		payload.Listings = append(payload.Listings, matchInputItem{
			ID:       i,
			Platform: l.Platform,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	content, err := c.complete(ctx, matchSystemPrompt, string(payloadJSON))
	if err != nil {
		return nil, err
	}

	var parsed matchOutput
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("unable to parse match response: %w", err)
	}

	return mergeGroups(listings, parsed), nil
}

func mergeGroups(listings []catalog.Listing, parsed matchOutput) []catalog.MatchGroup {
	assigned := make([]bool, len(listings))

	var out []catalog.MatchGroup
	for _, g := range parsed.Groups {
		var members []catalog.Listing
		for _, id := range g.IDs {
			if id < 0 || id >= len(listings) || assigned[id] {
				continue
			}
			assigned[id] = true
			members = append(members, listings[id])
		}
		if len(members) > 0 {
			out = append(out, catalog.MatchGroup{Label: g.Label, Listings: members})
		}
	}

	for i, l := range listings {
		if !assigned[i] {
			out = append(out, catalog.MatchGroup{Label: l.Name, Listings: []catalog.Listing{l}})
		}
	}

	return out
}

// GroupByPlatform is the deterministic matcher fallback: one group per
// platform, listing order preserved. It is a conservative degenerate
// grouping, never an error.
func GroupByPlatform(listings []catalog.Listing) []catalog.MatchGroup {
	byPlatform := make(map[string][]catalog.Listing)
	for _, l := range listings {
		byPlatform[l.Platform] = append(byPlatform[l.Platform], l)
	}

	out := []catalog.MatchGroup{}
	for _, p := range catalog.Platforms() {
		if members, ok := byPlatform[p]; ok {
			out = append(out, catalog.MatchGroup{Label: p, Listings: members})
		}
	}
	// Listings tagged with a platform outside the fixed set still get a group.
	for p, members := range byPlatform {
		if !catalog.IsKnownPlatform(p) {
			out = append(out, catalog.MatchGroup{Label: p, Listings: members})
		}
	}
	return out
}
