// Package sync drives the WooCommerce to eBay product sync: inventory
// upserts, the offer create/update/publish workflow and the bulk run over
// the whole catalog.
package sync

import (
	"net/http"
	"time"

	"github.com/julienbonastre/woo-ebay-sync/internal/config"
	"github.com/julienbonastre/woo-ebay-sync/internal/ebay"
)

const (
	defaultWorkers = 4

	// Image probes fail fast so one dead host cannot stall a product.
	probeTimeout = 7 * time.Second
)

// Options selects what a run is allowed to do.
type Options struct {
	DryRun       bool // log intended actions, no mutating calls
	CreateOffers bool // create/update an offer per synced SKU
	Publish      bool // publish offers after create/update
	Workers      int  // concurrent per-product workflows, defaults to 4
}

// Service runs sync operations against a configured store and marketplace.
type Service struct {
	cfg  *config.Config
	ebay *ebay.Client
	opts Options

	probeClient *http.Client
	locationKey string
}

// NewService creates a sync service.
func NewService(cfg *config.Config, client *ebay.Client, opts Options) *Service {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Service{
		cfg:         cfg,
		ebay:        client,
		opts:        opts,
		probeClient: &http.Client{Timeout: probeTimeout},
	}
}
