// Package woo consumes the WooCommerce REST API product listing.
package woo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const apiVersion = "wc/v3"

// Client fetches products from a WooCommerce store.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

// NewClient creates a WooCommerce client for a store URL and its REST API
// consumer credentials.
func NewClient(storeURL, consumerKey, consumerSecret string) *Client {
	return &Client{
		baseURL:        strings.TrimRight(storeURL, "/") + "/wp-json/" + apiVersion,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchPage returns one page of products.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) ([]Product, error) {
	q := url.Values{
		"consumer_key":    {c.consumerKey},
		"consumer_secret": {c.consumerSecret},
		"page":            {strconv.Itoa(page)},
		"per_page":        {strconv.Itoa(perPage)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("woo: products request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("woo: products request failed: %d - %s", resp.StatusCode, string(body))
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("woo: decode products: %w", err)
	}
	return products, nil
}

// FetchAll pages through the product catalog, stopping on a short page or
// once limit products have been collected. limit <= 0 means no cap.
func (c *Client) FetchAll(ctx context.Context, perPage, limit int) ([]Product, error) {
	if perPage < 1 || perPage > 100 {
		return nil, fmt.Errorf("woo: perPage must be between 1 and 100, got %d", perPage)
	}
	if limit > 0 && perPage > limit {
		perPage = limit
	}

	var all []Product
	for page := 1; ; page++ {
		if limit > 0 && len(all) >= limit {
			break
		}
		items, err := c.FetchPage(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		log.Printf("[woo] fetched %d products (page %d)", len(items), page)
		if len(items) < perPage {
			break
		}
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
