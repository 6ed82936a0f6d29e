package amazon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms"
	"github.com/IshwariGadewar/SmartBasket/pkg/whttp"
)

const searchURL = "https://www.amazon.in/s?k="

type Fetcher struct {
	// Client overrides the shared retrying HTTP client when set.
	Client *http.Client
}

func (f *Fetcher) Name() string { return catalog.PlatformAmazon }

// Fetch pulls the first result-page candidates for the query. The area code
// is not part of Amazon's search URL; serviceability is handled by the
// availability gate before we get here.
func (f *Fetcher) Fetch(ctx context.Context, query, areaCode string) ([]platforms.RawListing, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodGet,
		URL:    searchURL + url.QueryEscape(query),
		Headers: []whttp.WHTTPHeader{
			{Name: "Accept", Value: "text/html,application/xhtml+xml"},
		},
	}, f.Client)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amazon search returned %s", res.StatusText())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
	if err != nil {
		return nil, err
	}

	var out []platforms.RawListing
	doc.Find(".s-result-item[data-component-type='s-search-result']").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if len(out) >= platforms.MaxCandidates {
			return false
		}

		name := strings.TrimSpace(item.Find("h2 a span").First().Text())
		if name == "" {
			name = strings.TrimSpace(item.Find("h2 span").First().Text())
		}

		href := item.Find("h2 a").First().AttrOr("href", "")
		if href != "" && strings.HasPrefix(href, "/") {
			href = "https://www.amazon.in" + href
		}

		raw := platforms.RawListing{
			Name:              name,
			PriceText:         item.Find(".a-price .a-price-whole").First().Text(),
			OriginalPriceText: item.Find(".a-price.a-text-price .a-offscreen").First().Text(),
			URL:               href,
			ImageURL:          item.Find(".s-image").First().AttrOr("src", ""),
			RatingText:        item.Find(".a-icon-alt").First().Text(),
			ReviewsText:       item.Find(".a-size-base.s-underline-text").First().Text(),
			DeliveryTime:      strings.TrimSpace(item.Find(".a-text-bold").First().Text()),
			OutOfStock:        strings.Contains(item.Text(), "Currently unavailable"),
		}
		if raw.Name == "" && raw.PriceText == "" {
			// Sponsored shells and separators produce empty cards; skip them.
			return true
		}
		out = append(out, raw)
		return true
	})

	if len(out) == 0 {
		out = fromJSONLD(doc)
	}

	return out, nil
}

// fromJSONLD recovers candidates from embedded structured data when the
// result grid markup changes under us.
func fromJSONLD(doc *goquery.Document) []platforms.RawListing {
	var out []platforms.RawListing
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		parsed := gjson.Parse(s.Text())
		items := parsed.Get("itemListElement")
		if !items.Exists() {
			return true
		}
		for _, it := range items.Array() {
			if len(out) >= platforms.MaxCandidates {
				return false
			}
			out = append(out, platforms.RawListing{
				Name:      it.Get("name").String(),
				PriceText: it.Get("offers.price").String(),
				URL:       it.Get("url").String(),
				ImageURL:  it.Get("image").String(),
			})
		}
		return len(out) < platforms.MaxCandidates
	})
	return out
}
