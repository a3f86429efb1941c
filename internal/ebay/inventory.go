package ebay

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"github.com/julienbonastre/woo-ebay-sync/internal/retry"
)

// PutInventoryItem replaces the inventory item stored under sku.
func (c *Client) PutInventoryItem(ctx context.Context, sku string, item InventoryItem) error {
	path := "/sell/inventory/v1/inventory_item/" + url.PathEscape(sku)
	return retry.Do(ctx, retry.Options{Label: "put inventory item " + sku}, func(ctx context.Context) error {
		return c.do(ctx, userToken, http.MethodPut, path, nil, item, nil)
	})
}

// GetOffersBySKU returns every offer eBay holds for the SKU, in remote order.
func (c *Client) GetOffersBySKU(ctx context.Context, sku string) ([]Offer, error) {
	return retry.DoValue(ctx, retry.Options{Label: "get offers " + sku}, func(ctx context.Context) ([]Offer, error) {
		var out OffersResponse
		err := c.do(ctx, userToken, http.MethodGet, "/sell/inventory/v1/offer", url.Values{"sku": {sku}}, nil, &out)
		if err != nil {
			return nil, err
		}
		return out.Offers, nil
	})
}

// CreateOffer creates a new offer and returns the server-assigned offer id.
func (c *Client) CreateOffer(ctx context.Context, offer Offer) (string, error) {
	offerID, err := retry.DoValue(ctx, retry.Options{Label: "create offer " + offer.SKU}, func(ctx context.Context) (string, error) {
		var out struct {
			OfferID string `json:"offerId"`
		}
		err := c.do(ctx, userToken, http.MethodPost, "/sell/inventory/v1/offer", nil, offer, &out)
		if err != nil {
			return "", err
		}
		return out.OfferID, nil
	})
	if err != nil {
		return "", err
	}
	log.Printf("[ebay] created offer %s for SKU %s", offerID, offer.SKU)
	return offerID, nil
}

// UpdateOffer replaces the offer stored under offerID.
func (c *Client) UpdateOffer(ctx context.Context, offerID string, offer Offer) error {
	path := "/sell/inventory/v1/offer/" + url.PathEscape(offerID)
	err := retry.Do(ctx, retry.Options{Label: "update offer " + offer.SKU}, func(ctx context.Context) error {
		return c.do(ctx, userToken, http.MethodPut, path, nil, offer, nil)
	})
	if err != nil {
		return err
	}
	log.Printf("[ebay] updated offer %s for SKU %s", offerID, offer.SKU)
	return nil
}

// PublishOffer turns the offer into a live listing.
func (c *Client) PublishOffer(ctx context.Context, offerID string) error {
	path := "/sell/inventory/v1/offer/" + url.PathEscape(offerID) + "/publish"
	err := retry.Do(ctx, retry.Options{Label: "publish offer " + offerID}, func(ctx context.Context) error {
		return c.do(ctx, userToken, http.MethodPost, path, nil, nil, nil)
	})
	if err != nil {
		return err
	}
	log.Printf("[ebay] published offer %s", offerID)
	return nil
}
