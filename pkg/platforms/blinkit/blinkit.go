package blinkit

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

const searchURL = "https://blinkit.com/s/?q="

// Blinkit renders product cards server-side for search pages, with the card
// data duplicated in an embedded JSON blob we fall back to.
type Fetcher struct {
	Client *http.Client
}

func (f *Fetcher) Name() string { return catalog.PlatformBlinkit }

func (f *Fetcher) Fetch(ctx context.Context, query, areaCode string) ([]platforms.RawListing, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodGet,
		URL:    searchURL + url.QueryEscape(query),
		Headers: []whttp.WHTTPHeader{
			{Name: "Cookie", Value: "gr_1_pincode=" + areaCode},
		},
	}, f.Client)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("blinkit search returned %s", res.StatusText())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
	if err != nil {
		return nil, err
	}

	var out []platforms.RawListing
	doc.Find("[role='button'][id], .product-card").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if len(out) >= platforms.MaxCandidates {
			return false
		}

		name := firstText(item, ".product-name", "[class*='Product__Name']", "div[style*='line-height'] > div")
		price := firstText(item, ".product-price", "[class*='Price']")
		if name == "" || price == "" {
			return true
		}

		out = append(out, platforms.RawListing{
			Name:         name,
			PriceText:    price,
			Quantity:     firstText(item, ".product-variant", "[class*='Variant']"),
			DeliveryTime: firstText(item, ".delivery-info", "[class*='Eta']"),
			ImageURL:     item.Find("img").First().AttrOr("src", ""),
			URL:          searchURL + url.QueryEscape(query),
			OutOfStock:   strings.Contains(item.Text(), "Out of Stock"),
		})
		return true
	})

	if len(out) == 0 {
		out = fromEmbeddedState(res.BodyString)
	}

	return out, nil
}

// fromEmbeddedState digs product snippets out of the page's preloaded state.
func fromEmbeddedState(body string) []platforms.RawListing {
	start := strings.Index(body, `"products":[`)
	if start < 0 {
		return nil
	}
	arr := gjson.Parse(body[start+len(`"products":`):])
	if !arr.IsArray() {
		return nil
	}

	var out []platforms.RawListing
	for _, p := range arr.Array() {
		if len(out) >= platforms.MaxCandidates {
			break
		}
		name := p.Get("name").String()
		if name == "" {
			continue
		}
		out = append(out, platforms.RawListing{
			Name:              name,
			PriceText:         p.Get("price").String(),
			OriginalPriceText: p.Get("mrp").String(),
			Quantity:          p.Get("unit").String(),
			ImageURL:          p.Get("image_url").String(),
			DeliveryTime:      p.Get("eta").String(),
			OutOfStock:        p.Get("inventory").Int() == 0,
		})
	}
	return out
}

func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}
