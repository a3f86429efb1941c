package ebay

import (
	"context"
	"net/http"
	"net/url"

	"github.com/julienbonastre/woo-ebay-sync/internal/retry"
)

// GetLocation returns the merchant location key when the location exists,
// or "" when eBay reports it missing.
func (c *Client) GetLocation(ctx context.Context, key string) (string, error) {
	var out struct {
		MerchantLocationKey string `json:"merchantLocationKey"`
	}
	path := "/sell/inventory/v1/location/" + url.PathEscape(key)
	err := c.do(ctx, userToken, http.MethodGet, path, nil, nil, &out)
	if err != nil {
		if Classify(err) == KindEntityNotFound {
			return "", nil
		}
		return "", err
	}
	return out.MerchantLocationKey, nil
}

// CreateLocation registers a fulfillment location under its key.
func (c *Client) CreateLocation(ctx context.Context, loc Location) error {
	path := "/sell/inventory/v1/location/" + url.PathEscape(loc.MerchantLocationKey)
	return retry.Do(ctx, retry.Options{Label: "create location"}, func(ctx context.Context) error {
		return c.do(ctx, userToken, http.MethodPost, path, nil, loc, nil)
	})
}
