package sync

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/julienbonastre/woo-ebay-sync/internal/ebay"
	"github.com/julienbonastre/woo-ebay-sync/internal/woo"
)

const maxTitleLength = 80

// InventoryStatus reports what the upsert did with a product.
type InventoryStatus string

const (
	StatusSkippedNoSKU    InventoryStatus = "skipped-no-sku"
	StatusSkippedNoImages InventoryStatus = "skipped-no-images"
	StatusDryRun          InventoryStatus = "dry-run"
	StatusUpserted        InventoryStatus = "upserted"
)

// InventoryResult is the outcome of upserting one product.
type InventoryResult struct {
	SKU    string
	Status InventoryStatus
}

// UpsertInventoryItem pushes the product's base listing content to eBay,
// keyed by SKU. Products without a SKU or without any usable image are
// skipped, not failed. A SKU is never given an offer without surviving this
// gate first.
func (s *Service) UpsertInventoryItem(ctx context.Context, prod woo.Product) (InventoryResult, error) {
	if prod.SKU == "" {
		log.Printf("[inventory] skipping product %q: no SKU", prod.Name)
		return InventoryResult{Status: StatusSkippedNoSKU}, nil
	}

	urls := sanitizeImageURLs(prod.Images)
	if !s.opts.DryRun {
		urls = s.filterReachableImages(ctx, prod.SKU, urls)
	}
	if len(urls) == 0 {
		log.Printf("[inventory] skipping SKU %s: no valid images after sanitisation", prod.SKU)
		return InventoryResult{SKU: prod.SKU, Status: StatusSkippedNoImages}, nil
	}

	item := buildInventoryItem(prod, urls, s.cfg.Condition)
	if s.opts.DryRun {
		log.Printf("[dry-run] would PUT inventory item for SKU %s with %d images", prod.SKU, len(urls))
		return InventoryResult{SKU: prod.SKU, Status: StatusDryRun}, nil
	}

	if err := s.ebay.PutInventoryItem(ctx, prod.SKU, item); err != nil {
		return InventoryResult{}, fmt.Errorf("put inventory item %s: %w", prod.SKU, err)
	}
	return InventoryResult{SKU: prod.SKU, Status: StatusUpserted}, nil
}

func buildInventoryItem(prod woo.Product, imageURLs []string, condition string) ebay.InventoryItem {
	title := prod.Name
	if r := []rune(title); len(r) > maxTitleLength {
		title = string(r[:maxTitleLength])
	}
	desc := prod.ShortDescription
	if desc == "" {
		desc = prod.Description
	}
	if desc == "" {
		desc = prod.Name
	}
	return ebay.InventoryItem{
		SKU:       prod.SKU,
		Condition: condition,
		Product: &ebay.Product{
			Title:       title,
			Description: desc,
			ImageURLs:   imageURLs,
			Aspects:     map[string][]string{},
		},
		Availability: &ebay.Availability{
			ShipToLocationAvailability: &ebay.ShipToLocation{Quantity: prod.Quantity()},
		},
	}
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// sanitizeImageURLs percent-encodes internal whitespace and drops anything
// without an http(s) scheme.
func sanitizeImageURLs(urls []string) []string {
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		u = whitespaceRE.ReplaceAllString(u, "%20")
		if !hasHTTPScheme(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func hasHTTPScheme(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// filterReachableImages keeps the URLs that respond with an image content
// type. Probes run sequentially per product.
// TODO: probe a product's images concurrently; catalogs with many images
// per product pay the full round-trip cost one URL at a time.
func (s *Service) filterReachableImages(ctx context.Context, sku string, urls []string) []string {
	var valid []string
	for _, u := range urls {
		ctype, err := s.probeImage(ctx, u)
		if err != nil {
			log.Printf("[inventory] SKU %s: dropping unreachable image %s: %v", sku, u, err)
			continue
		}
		if !strings.HasPrefix(strings.ToLower(ctype), "image/") {
			log.Printf("[inventory] SKU %s: dropping non-image URL %s (content-type %q)", sku, u, ctype)
			continue
		}
		valid = append(valid, u)
	}
	return valid
}

// probeImage issues a HEAD request, falling back to a GET whose body is
// discarded unread when the host rejects HEAD.
func (s *Service) probeImage(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.probeClient.Do(req)
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode < 400 {
			return resp.Header.Get("Content-Type"), nil
		}
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err = s.probeClient.Do(req)
	if err != nil {
		return "", err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Header.Get("Content-Type"), nil
}
