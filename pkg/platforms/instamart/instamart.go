package instamart

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms"
	"github.com/IshwariGadewar/SmartBasket/pkg/whttp"
)

const searchURL = "https://www.swiggy.com/api/instamart/search?query="

// Instamart exposes a JSON search API, so this adapter skips HTML entirely.
type Fetcher struct {
	Client *http.Client
}

func (f *Fetcher) Name() string { return catalog.PlatformInstamart }

func (f *Fetcher) Fetch(ctx context.Context, query, areaCode string) ([]platforms.RawListing, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodGet,
		URL:    searchURL + url.QueryEscape(query),
		Headers: []whttp.WHTTPHeader{
			{Name: "Accept", Value: "application/json"},
			{Name: "Cookie", Value: "userLocation=" + url.QueryEscape(`{"pincode":"`+areaCode+`"}`)},
		},
	}, f.Client)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instamart search returned %s", res.StatusText())
	}

	items := gjson.Get(res.BodyString, "data.widgets.#.data|@flatten")
	if !items.Exists() {
		items = gjson.Get(res.BodyString, "data.items")
	}

	var out []platforms.RawListing
	for _, it := range items.Array() {
		if len(out) >= platforms.MaxCandidates {
			break
		}
		name := it.Get("display_name").String()
		if name == "" {
			name = it.Get("name").String()
		}
		if name == "" {
			continue
		}

		variation := it.Get("variations.0")
		out = append(out, platforms.RawListing{
			Name:              name,
			PriceText:         variation.Get("price.offer_price").String(),
			OriginalPriceText: variation.Get("price.mrp").String(),
			Quantity:          variation.Get("quantity").String(),
			ImageURL:          variation.Get("images.0").String(),
			DeliveryTime:      it.Get("sla.deliveryTime").String(),
			OutOfStock:        !variation.Get("in_stock").Bool() && variation.Get("in_stock").Exists(),
			URL:               "https://www.swiggy.com/instamart/item/" + it.Get("product_id").String(),
		})
	}

	if len(out) == 0 && !strings.Contains(res.BodyString, `"data"`) {
		return nil, fmt.Errorf("instamart search returned an unexpected payload (%d chars)", res.ResponseLength)
	}

	return out, nil
}
