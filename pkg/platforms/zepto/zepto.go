package zepto

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

const searchURL = "https://www.zeptonow.com/search?query="

type Fetcher struct {
	Client *http.Client
}

func (f *Fetcher) Name() string { return catalog.PlatformZepto }

func (f *Fetcher) Fetch(ctx context.Context, query, areaCode string) ([]platforms.RawListing, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodGet,
		URL:    searchURL + url.QueryEscape(query),
	}, f.Client)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zepto search returned %s", res.StatusText())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
	if err != nil {
		return nil, err
	}

	var out []platforms.RawListing
	doc.Find("a[data-testid='product-card']").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if len(out) >= platforms.MaxCandidates {
			return false
		}

		name := strings.TrimSpace(item.Find("[data-testid='product-card-name']").First().Text())
		if name == "" {
			return true
		}

		href := item.AttrOr("href", "")
		if href != "" && strings.HasPrefix(href, "/") {
			href = "https://www.zeptonow.com" + href
		}

		out = append(out, platforms.RawListing{
			Name:              name,
			PriceText:         item.Find("[data-testid='product-card-price']").First().Text(),
			OriginalPriceText: item.Find("p[class*='line-through']").First().Text(),
			Quantity:          strings.TrimSpace(item.Find("[data-testid='product-card-quantity']").First().Text()),
			ImageURL:          item.Find("img").First().AttrOr("src", ""),
			URL:               href,
			OutOfStock:        strings.Contains(item.Text(), "Out of Stock"),
		})
		return true
	})

	// Next.js pages ship the same data in __NEXT_DATA__; use it when the
	// rendered cards are missing or behind a location prompt.
	if len(out) == 0 {
		if idx := strings.Index(res.BodyString, `"products":[`); idx >= 0 {
			arr := gjson.Parse(res.BodyString[idx+len(`"products":`):])
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
					PriceText:         p.Get("sellingPrice").String(),
					OriginalPriceText: p.Get("mrp").String(),
					Quantity:          p.Get("packsize").String(),
					ImageURL:          p.Get("image.path").String(),
					OutOfStock:        p.Get("outOfStock").Bool(),
				})
			}
		}
	}

	return out, nil
}
