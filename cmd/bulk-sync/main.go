// Bulk sync WooCommerce -> eBay: inventory items, optional offers, optional
// publish.
//
//	bulk-sync                      inventory items only (safe default)
//	bulk-sync -offers              create/update offers too
//	bulk-sync -offers -publish     publish offers after create/update
//	bulk-sync -dry-run             log intended actions, change nothing
//	bulk-sync -page-size 50        pull Woo products 50 at a time
//	bulk-sync -offers -limit 5     limit to the first 5 products
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/julienbonastre/woo-ebay-sync/internal/config"
	"github.com/julienbonastre/woo-ebay-sync/internal/database"
	"github.com/julienbonastre/woo-ebay-sync/internal/ebay"
	"github.com/julienbonastre/woo-ebay-sync/internal/sync"
	"github.com/julienbonastre/woo-ebay-sync/internal/woo"
)

func main() {
	offers := flag.Bool("offers", false, "create or update an offer for each synced SKU")
	publish := flag.Bool("publish", false, "publish offers after create/update (implies -offers)")
	dryRun := flag.Bool("dry-run", false, "log intended actions without making any changes")
	pageSize := flag.Int("page-size", 100, "WooCommerce products per page (1-100)")
	limit := flag.Int("limit", 0, "process at most this many products (0 = all)")
	flag.Parse()

	if *publish {
		*offers = true
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	mode := "LIVE"
	if *dryRun {
		mode = "DRY RUN"
	}
	log.Printf("=== Woo -> eBay bulk sync ===")
	log.Printf("env=%s marketplace=%s currency=%s mode=%s offers=%v publish=%v",
		cfg.EbayEnv, cfg.MarketplaceID, cfg.Currency, mode, *offers, *publish)

	ebayClient := ebay.NewClient(ebay.Config{
		ClientID:     cfg.EbayClientID,
		ClientSecret: cfg.EbayClientSecret,
		RefreshToken: cfg.EbayRefreshToken,
		Sandbox:      cfg.Sandbox(),
	})

	// Auth early to fail fast, before any catalog work.
	log.Printf("authenticating with eBay...")
	if err := ebayClient.Authenticate(ctx); err != nil {
		log.Fatalf("ebay auth: %v", err)
	}

	var db *database.DB
	if cfg.HistoryDBPath != "" {
		db, err = database.Open(cfg.HistoryDBPath)
		if err != nil {
			log.Fatalf("open history db: %v", err)
		}
		defer db.Close()
	}
	run := &database.SyncRun{
		ID:             uuid.NewString(),
		StartedAt:      time.Now(),
		DryRun:         *dryRun,
		OffersEnabled:  *offers,
		PublishEnabled: *publish,
		Status:         "running",
	}
	if db != nil {
		if err := db.CreateRun(run); err != nil {
			log.Printf("history: %v", err)
			db = nil
		}
	}

	svc := sync.NewService(cfg, ebayClient, sync.Options{
		DryRun:       *dryRun,
		CreateOffers: *offers,
		Publish:      *publish,
	})

	var locationKey string
	if *offers {
		locationKey, err = svc.EnsureLocation(ctx)
		if err != nil {
			fatalRun(db, run, err)
		}
	}

	wooClient := woo.NewClient(cfg.WooURL, cfg.WooConsumerKey, cfg.WooConsumerSecret)
	products, err := wooClient.FetchAll(ctx, *pageSize, *limit)
	if err != nil {
		fatalRun(db, run, fmt.Errorf("fetch woo products: %w", err))
	}
	log.Printf("total Woo products: %d", len(products))

	summary := svc.Run(ctx, products, locationKey)

	log.Printf("=== Summary ===")
	log.Printf("inventory upserted: %d", summary.Upserted)
	log.Printf("skipped (no sku/images): %d", summary.Skipped)
	log.Printf("offers processed: %d", summary.OffersProcessed)
	log.Printf("published: %d", summary.Published)
	log.Printf("failed: %d", summary.Failed)

	if db != nil {
		run.ProductsTotal = summary.Products
		run.ItemsUpserted = summary.Upserted
		run.ItemsSkipped = summary.Skipped
		run.OffersProcessed = summary.OffersProcessed
		run.OffersPublished = summary.Published
		run.ItemsFailed = summary.Failed
		run.Status = "success"
		if summary.Failed > 0 {
			run.Status = "partial"
		}
		now := time.Now()
		run.CompletedAt = &now
		if err := db.CompleteRun(run); err != nil {
			log.Printf("history: %v", err)
		}
	}
}

// fatalRun marks the history row failed and exits non-zero. Per-item
// failures never land here; only run-level errors do.
func fatalRun(db *database.DB, run *database.SyncRun, err error) {
	log.Printf("fatal: %v", err)
	if db != nil {
		run.Status = "failed"
		run.ErrorMessage = err.Error()
		now := time.Now()
		run.CompletedAt = &now
		if cerr := db.CompleteRun(run); cerr != nil {
			log.Printf("history: %v", cerr)
		}
		db.Close()
	}
	os.Exit(1)
}
