package sync

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/julienbonastre/woo-ebay-sync/internal/woo"
)

// Summary aggregates the per-run counters.
type Summary struct {
	Products        int
	NonSimple       int
	Upserted        int
	Skipped         int
	OffersProcessed int
	Published       int
	Failed          int
}

type counters struct {
	upserted  atomic.Int64
	skipped   atomic.Int64
	offers    atomic.Int64
	published atomic.Int64
	failed    atomic.Int64
}

// Run syncs all eligible products with bounded concurrency. A product's
// failure is logged and counted; it never aborts the run.
func (s *Service) Run(ctx context.Context, products []woo.Product, locationKey string) Summary {
	s.locationKey = locationKey

	var eligible []woo.Product
	for _, p := range products {
		if p.Simple() {
			eligible = append(eligible, p)
		}
	}
	nonSimple := len(products) - len(eligible)
	if nonSimple > 0 {
		log.Printf("[sync] %d non-simple products detected (variable/grouped); only simple products are processed", nonSimple)
	}

	var c counters
	sem := make(chan struct{}, s.opts.Workers)
	var wg sync.WaitGroup
	for _, prod := range eligible {
		wg.Add(1)
		sem <- struct{}{}
		go func(p woo.Product) {
			defer wg.Done()
			defer func() { <-sem }()
			s.processProduct(ctx, p, &c)
		}(prod)
	}
	wg.Wait()

	return Summary{
		Products:        len(products),
		NonSimple:       nonSimple,
		Upserted:        int(c.upserted.Load()),
		Skipped:         int(c.skipped.Load()),
		OffersProcessed: int(c.offers.Load()),
		Published:       int(c.published.Load()),
		Failed:          int(c.failed.Load()),
	}
}

func (s *Service) processProduct(ctx context.Context, prod woo.Product, c *counters) {
	res, err := s.UpsertInventoryItem(ctx, prod)
	if err != nil {
		log.Printf("[sync] SKU %s failed: %v", skuOrPlaceholder(prod), err)
		c.failed.Add(1)
		return
	}
	switch res.Status {
	case StatusSkippedNoSKU, StatusSkippedNoImages:
		c.skipped.Add(1)
		return
	}
	c.upserted.Add(1)

	if !s.opts.CreateOffers {
		return
	}
	out, err := s.EnsureOffer(ctx, res.SKU, prod, s.locationKey)
	if err != nil {
		log.Printf("[sync] SKU %s failed: %v", res.SKU, err)
		c.failed.Add(1)
		return
	}
	c.offers.Add(1)
	log.Printf("[sync] SKU %s: offer %s %s", res.SKU, out.OfferID, out.Status)
	if out.Status == OfferPublished {
		c.published.Add(1)
	}
}

func skuOrPlaceholder(prod woo.Product) string {
	if prod.SKU == "" {
		return "(no sku)"
	}
	return prod.SKU
}
